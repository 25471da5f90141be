package catalog

// Product is the store's product record as seen by the client.
type Product struct {
	ID          string  `json:"id_product"`
	ShopID      string  `json:"id_shop"`
	Name        string  `json:"name_product"`
	Price       *Price  `json:"price"`
	Discount    *Price  `json:"discount"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// Package bundles several products sold as one line item. The three price
// fields are alternatives, not components; resolution order lives in the
// pricing package.
type Package struct {
	ID              string    `json:"id_package"`
	ShopID          string    `json:"id_shop"`
	Name            string    `json:"name_package"`
	DiscountedPrice *Price    `json:"discounted_price"`
	TotalPrice      *Price    `json:"total_price"`
	PricePackage    *Price    `json:"price_package"`
	ImageURL        *string   `json:"image_url"`
	Products        []Product `json:"products"`
}
