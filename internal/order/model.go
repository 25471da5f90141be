package order

import "time"

// Order is the store's authoritative record; the client holds cached copies
// refreshed by polling.
type Order struct {
	ID              string        `json:"id_order"`
	UserID          string        `json:"id_user"`
	ShopID          string        `json:"id_shop"`
	RiderID         *string       `json:"id_rider"`
	RiderAccepted   *bool         `json:"rider_accepted"`
	Status          Status        `json:"order_status"`
	DeliveryType    string        `json:"delivery_type"`
	DeliveryAddress *string       `json:"delivery_address"`
	Notes           string        `json:"order_notes"`
	Products        []ProductLine `json:"order_products"`
	Packages        []PackageLine `json:"order_packages"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ProductLine is a product entry with its total captured at creation time;
// prices are never recomputed retroactively.
type ProductLine struct {
	ProductID  string  `json:"id_product"`
	Quantity   int     `json:"quantity"`
	Note       string  `json:"note"`
	TotalPrice float64 `json:"total_price"`
}

type PackageLine struct {
	PackageID  string  `json:"id_package"`
	Quantity   int     `json:"quantity"`
	Note       string  `json:"note"`
	TotalPrice float64 `json:"total_price"`
}

// Total sums the captured line totals.
func (o *Order) Total() float64 {
	total := 0.0
	for _, line := range o.Products {
		total += line.TotalPrice
	}
	for _, line := range o.Packages {
		total += line.TotalPrice
	}
	return total
}

// CreateOrderRequest is the payload for /order/create.
type CreateOrderRequest struct {
	UserID          string        `json:"id_user"`
	ShopID          string        `json:"id_shop"`
	Products        []ProductLine `json:"products"`
	Packages        []PackageLine `json:"packages"`
	DeliveryType    string        `json:"delivery_type"`
	DeliveryAddress *string       `json:"delivery_address"`
	OrderNotes      string        `json:"order_notes"`
}
