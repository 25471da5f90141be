package cart

import "pasargo/internal/catalog"

type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

// ProductLine is one product entry in the cart. Identity is the product id;
// adding the same product again merges into the existing line.
type ProductLine struct {
	Product  *catalog.Product
	Quantity int
	Note     string
}

// PackageLine is one package entry in the cart.
type PackageLine struct {
	Package  *catalog.Package
	Quantity int
	Note     string
}

// Checkout is an immutable copy of the cart taken at order-creation time.
type Checkout struct {
	Products        []ProductLine
	Packages        []PackageLine
	DeliveryType    DeliveryType
	DeliveryAddress string
	OrderNotes      string
}

func (c Checkout) Empty() bool {
	return len(c.Products) == 0 && len(c.Packages) == 0
}
