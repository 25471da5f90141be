package cart

import (
	"sync"

	"pasargo/internal/catalog"
	"pasargo/internal/pricing"
)

// Store holds the shopper's unpersisted selection plus the delivery
// preferences that travel with it. Nothing here touches the network; the
// order service consumes a Checkout snapshot on submission.
type Store struct {
	mu              sync.Mutex
	products        []*ProductLine
	packages        []*PackageLine
	deliveryType    DeliveryType
	deliveryAddress string
	orderNotes      string
}

func NewStore() *Store {
	return &Store{deliveryType: DeliveryPickup}
}

// AddProduct merges into an existing line for the same product id:
// quantities add up, the note is replaced only when a non-empty note is
// supplied. A quantity below one counts as one.
func (s *Store) AddProduct(p *catalog.Product, quantity int, note string) error {
	if p == nil || p.ID == "" {
		return ErrNilProduct
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.products {
		if line.Product.ID == p.ID {
			line.Quantity += quantity
			if note != "" {
				line.Note = note
			}
			return nil
		}
	}

	s.products = append(s.products, &ProductLine{Product: p, Quantity: quantity, Note: note})
	return nil
}

// AddPackage mirrors AddProduct for package lines.
func (s *Store) AddPackage(pkg *catalog.Package, quantity int, note string) error {
	if pkg == nil || pkg.ID == "" {
		return ErrNilPackage
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.packages {
		if line.Package.ID == pkg.ID {
			line.Quantity += quantity
			if note != "" {
				line.Note = note
			}
			return nil
		}
	}

	s.packages = append(s.packages, &PackageLine{Package: pkg, Quantity: quantity, Note: note})
	return nil
}

// UpdateProductQuantity sets the quantity for a line; zero or less removes
// the line, same as RemoveProduct.
func (s *Store) UpdateProductQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveProduct(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.products {
		if line.Product.ID == productID {
			line.Quantity = quantity
			return
		}
	}
}

func (s *Store) UpdatePackageQuantity(packageID string, quantity int) {
	if quantity <= 0 {
		s.RemovePackage(packageID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.packages {
		if line.Package.ID == packageID {
			line.Quantity = quantity
			return
		}
	}
}

func (s *Store) RemoveProduct(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.products {
		if line.Product.ID == productID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return
		}
	}
}

func (s *Store) RemovePackage(packageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.packages {
		if line.Package.ID == packageID {
			s.packages = append(s.packages[:i], s.packages[i+1:]...)
			return
		}
	}
}

// Clear empties both collections and resets the delivery preferences.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = nil
	s.packages = nil
	s.deliveryType = DeliveryPickup
	s.deliveryAddress = ""
	s.orderNotes = ""
}

func (s *Store) SetDeliveryType(dt DeliveryType) error {
	if dt != DeliveryPickup && dt != DeliveryDelivery {
		return ErrInvalidDeliveryType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveryType = dt
	return nil
}

func (s *Store) SetDeliveryAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveryAddress = address
}

func (s *Store) SetOrderNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderNotes = notes
}

func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products) == 0 && len(s.packages) == 0
}

// Total sums unit price times quantity over every line, resolving package
// prices through the fallback chain. Pure; never mutates the cart.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, line := range s.products {
		total += pricing.UnitPrice(line.Product) * float64(line.Quantity)
	}
	for _, line := range s.packages {
		total += pricing.ResolvePackagePrice(line.Package) * float64(line.Quantity)
	}
	return total
}

// Snapshot copies the cart for order submission so the order service works
// on a stable view while the shopper may keep mutating the cart.
func (s *Store) Snapshot() Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Checkout{
		Products:        make([]ProductLine, 0, len(s.products)),
		Packages:        make([]PackageLine, 0, len(s.packages)),
		DeliveryType:    s.deliveryType,
		DeliveryAddress: s.deliveryAddress,
		OrderNotes:      s.orderNotes,
	}
	for _, line := range s.products {
		out.Products = append(out.Products, *line)
	}
	for _, line := range s.packages {
		out.Packages = append(out.Packages, *line)
	}
	return out
}
