package order

// RiderState is the rider-matching dimension of an order, independent of
// the fulfillment status. The store encodes it as a nullable rider id plus
// a nullable accepted flag; the client normalizes that pair into a tagged
// state so inconsistent combinations cannot circulate.
type RiderState int

const (
	// RiderUnrequested: no rider holds the order; any rider may request it.
	RiderUnrequested RiderState = iota
	// RiderPendingApproval: a rider requested the order and the shop has
	// not decided yet.
	RiderPendingApproval
	// RiderAccepted: the shop approved the rider; they alone deliver.
	RiderAccepted
	// RiderRejected: the shop rejected the current rider. The rider id is
	// kept for history; the order is requestable again, including by the
	// rejected rider.
	RiderRejected
)

func (s RiderState) String() string {
	switch s {
	case RiderPendingApproval:
		return "pending_approval"
	case RiderAccepted:
		return "accepted"
	case RiderRejected:
		return "rejected"
	default:
		return "unrequested"
	}
}

// RiderAssignment pairs the state with the rider it refers to. RiderID is
// empty only in the unrequested state.
type RiderAssignment struct {
	State   RiderState
	RiderID string
}

// RiderAssignment normalizes the wire fields. A record claiming acceptance
// or rejection with no rider attached is treated as unrequested; callers
// that care (the dispatch coordinator) log the inconsistency.
func (o *Order) RiderAssignment() RiderAssignment {
	if o.RiderID == nil || *o.RiderID == "" {
		return RiderAssignment{State: RiderUnrequested}
	}

	switch {
	case o.RiderAccepted == nil:
		return RiderAssignment{State: RiderPendingApproval, RiderID: *o.RiderID}
	case *o.RiderAccepted:
		return RiderAssignment{State: RiderAccepted, RiderID: *o.RiderID}
	default:
		return RiderAssignment{State: RiderRejected, RiderID: *o.RiderID}
	}
}

// Inconsistent reports a record whose accepted flag is set while no rider
// is attached. Such records normalize to unrequested.
func (o *Order) Inconsistent() bool {
	return (o.RiderID == nil || *o.RiderID == "") && o.RiderAccepted != nil
}
