package enums

// VariantStatus is derived from the variant's stock quantity.
type VariantStatus string

const (
	VariantStatusInStock    VariantStatus = "in_stock"
	VariantStatusOutOfStock VariantStatus = "out_of_stock"
)

// VariantStatusForStock maps a stock quantity onto the derived status.
func VariantStatusForStock(qty int) VariantStatus {
	if qty > 0 {
		return VariantStatusInStock
	}
	return VariantStatusOutOfStock
}
