package cart

import (
	"encoding/json"
	"math"
	"testing"

	"pasargo/internal/catalog"

	"github.com/stretchr/testify/assert"
)

func price(v float64) *catalog.Price {
	p := catalog.Price(v)
	return &p
}

func product(id string, unit float64) *catalog.Product {
	return &catalog.Product{ID: id, Name: "product " + id, Price: price(unit)}
}

func TestStore_AddProduct(t *testing.T) {
	t.Run("Merges quantity and keeps original note", func(t *testing.T) {
		s := NewStore()

		assert.NoError(t, s.AddProduct(product("p1", 5), 2, "no onions"))
		assert.NoError(t, s.AddProduct(product("p1", 5), 3, ""))

		snap := s.Snapshot()
		assert.Len(t, snap.Products, 1)
		assert.Equal(t, 5, snap.Products[0].Quantity)
		assert.Equal(t, "no onions", snap.Products[0].Note)
	})

	t.Run("Non-empty note on merge replaces the old one", func(t *testing.T) {
		s := NewStore()

		assert.NoError(t, s.AddProduct(product("p1", 5), 1, "old"))
		assert.NoError(t, s.AddProduct(product("p1", 5), 1, "new"))

		snap := s.Snapshot()
		assert.Equal(t, "new", snap.Products[0].Note)
	})

	t.Run("Quantity below one defaults to one", func(t *testing.T) {
		s := NewStore()

		assert.NoError(t, s.AddProduct(product("p1", 5), 0, ""))

		snap := s.Snapshot()
		assert.Equal(t, 1, snap.Products[0].Quantity)
	})

	t.Run("Error - nil product", func(t *testing.T) {
		s := NewStore()
		assert.Equal(t, ErrNilProduct, s.AddProduct(nil, 1, ""))
	})
}

func TestStore_UpdateProductQuantity(t *testing.T) {
	t.Run("Sets quantity", func(t *testing.T) {
		s := NewStore()
		_ = s.AddProduct(product("p1", 5), 2, "")

		s.UpdateProductQuantity("p1", 7)

		assert.Equal(t, 7, s.Snapshot().Products[0].Quantity)
	})

	t.Run("Zero removes the line, same as RemoveProduct", func(t *testing.T) {
		s := NewStore()
		_ = s.AddProduct(product("p1", 5), 2, "")

		s.UpdateProductQuantity("p1", 0)

		assert.True(t, s.Empty())
	})

	t.Run("Unknown id is a no-op", func(t *testing.T) {
		s := NewStore()
		_ = s.AddProduct(product("p1", 5), 2, "")

		s.UpdateProductQuantity("ghost", 9)

		assert.Equal(t, 2, s.Snapshot().Products[0].Quantity)
	})
}

func TestStore_Packages(t *testing.T) {
	pkg := &catalog.Package{ID: "k1", PricePackage: price(9.99)}

	t.Run("Add and merge", func(t *testing.T) {
		s := NewStore()

		assert.NoError(t, s.AddPackage(pkg, 1, ""))
		assert.NoError(t, s.AddPackage(pkg, 2, ""))

		snap := s.Snapshot()
		assert.Len(t, snap.Packages, 1)
		assert.Equal(t, 3, snap.Packages[0].Quantity)
	})

	t.Run("Flat-priced package total", func(t *testing.T) {
		s := NewStore()
		_ = s.AddPackage(pkg, 3, "")

		assert.InDelta(t, 9.99*3, s.Total(), 1e-9)
	})

	t.Run("Zero quantity removes", func(t *testing.T) {
		s := NewStore()
		_ = s.AddPackage(pkg, 2, "")

		s.UpdatePackageQuantity("k1", -1)

		assert.True(t, s.Empty())
	})
}

func TestStore_Total(t *testing.T) {
	t.Run("Sums products and packages", func(t *testing.T) {
		s := NewStore()
		_ = s.AddProduct(product("p1", 5), 2, "")
		_ = s.AddPackage(&catalog.Package{ID: "k1", DiscountedPrice: price(12.5)}, 1, "")

		assert.InDelta(t, 22.5, s.Total(), 1e-9)
	})

	t.Run("Total is pure", func(t *testing.T) {
		s := NewStore()
		_ = s.AddProduct(product("p1", 5), 2, "")

		first := s.Total()
		second := s.Total()

		assert.Equal(t, first, second)
		assert.Equal(t, 2, s.Snapshot().Products[0].Quantity)
	})

	t.Run("Malformed records still yield a finite total", func(t *testing.T) {
		var p catalog.Product
		assert.NoError(t, json.Unmarshal([]byte(`{"id_product":"p1","price":"not a price"}`), &p))

		s := NewStore()
		_ = s.AddProduct(&p, 4, "")
		_ = s.AddPackage(&catalog.Package{ID: "k1"}, 2, "")

		total := s.Total()
		assert.False(t, math.IsNaN(total))
		assert.False(t, math.IsInf(total, 0))
		assert.Equal(t, float64(0), total)
	})
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	_ = s.AddProduct(product("p1", 5), 2, "")
	assert.NoError(t, s.SetDeliveryType(DeliveryDelivery))
	s.SetDeliveryAddress("Jl. Melati 4")
	s.SetOrderNotes("ring the bell")

	s.Clear()

	snap := s.Snapshot()
	assert.True(t, s.Empty())
	assert.Equal(t, DeliveryPickup, snap.DeliveryType)
	assert.Equal(t, "", snap.DeliveryAddress)
	assert.Equal(t, "", snap.OrderNotes)
}

func TestStore_SetDeliveryType(t *testing.T) {
	s := NewStore()

	assert.NoError(t, s.SetDeliveryType(DeliveryDelivery))
	assert.Equal(t, ErrInvalidDeliveryType, s.SetDeliveryType("drone"))
	assert.Equal(t, DeliveryDelivery, s.Snapshot().DeliveryType)
}
