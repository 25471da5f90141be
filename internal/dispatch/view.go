package dispatch

import "pasargo/internal/order"

// View is a rider's categorization of the order set, recomputed from
// server truth on every poll. It is never patched optimistically: a
// competing rider's request simply makes the order vanish from Pending on
// the next cycle.
type View struct {
	// Available: open to a request, either unassigned or rejected. A
	// rejected order reopens for every rider, including the one the shop
	// turned down.
	Available []*order.Order
	// Pending: this rider requested it; the shop has not decided.
	Pending []*order.Order
	// Mine: the shop approved this rider.
	Mine []*order.Order
}

// Categorize splits orders by the rider-matching state relative to riderID.
// Pure; the coordinator calls it after each fetch and tests drive it
// directly.
func Categorize(orders []*order.Order, riderID string) View {
	var v View
	for _, o := range orders {
		a := o.RiderAssignment()
		switch {
		case a.State == order.RiderUnrequested, a.State == order.RiderRejected:
			v.Available = append(v.Available, o)
		case a.State == order.RiderPendingApproval && a.RiderID == riderID:
			v.Pending = append(v.Pending, o)
		case a.State == order.RiderAccepted && a.RiderID == riderID:
			v.Mine = append(v.Mine, o)
		}
	}
	return v
}

// PendingRiderRequests picks the shop-side decisions: orders a rider has
// requested that still await an accept or reject.
func PendingRiderRequests(orders []*order.Order) []*order.Order {
	var out []*order.Order
	for _, o := range orders {
		if o.RiderAssignment().State == order.RiderPendingApproval {
			out = append(out, o)
		}
	}
	return out
}
