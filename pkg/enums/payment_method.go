package enums

// PaymentMethod labels how an order is settled. Cash on delivery is the only
// method the storefront supports today.
type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "COD"
)
