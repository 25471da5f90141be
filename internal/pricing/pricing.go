package pricing

import "pasargo/internal/catalog"

// ResolvePackagePrice returns the effective unit price for a package. The
// first price field that is present and non-null wins:
//
//	discounted_price -> total_price -> price_package -> 0
//
// A zero result with all fields missing signals a data problem upstream; it
// is never an error here so totals stay computable.
func ResolvePackagePrice(pkg *catalog.Package) float64 {
	if pkg == nil {
		return 0
	}
	if pkg.DiscountedPrice != nil {
		return pkg.DiscountedPrice.Float64()
	}
	return ResolveOriginalPackagePrice(pkg)
}

// ResolveOriginalPackagePrice mirrors the chain but skips discounted_price,
// for showing the before-discount value.
func ResolveOriginalPackagePrice(pkg *catalog.Package) float64 {
	if pkg == nil {
		return 0
	}
	if pkg.TotalPrice != nil {
		return pkg.TotalPrice.Float64()
	}
	if pkg.PricePackage != nil {
		return pkg.PricePackage.Float64()
	}
	return 0
}

// UnitPrice returns a product's own price, zero when missing or unparsable.
func UnitPrice(p *catalog.Product) float64 {
	if p == nil {
		return 0
	}
	return p.Price.Float64()
}
