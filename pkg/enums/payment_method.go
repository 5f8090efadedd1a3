package enums

// PaymentMethod describes how a customer settles an order.
type PaymentMethod string

const (
	PaymentMethodGCash PaymentMethod = "gcash"
	PaymentMethodCOD   PaymentMethod = "cod"
)

var paymentMethods = []PaymentMethod{PaymentMethodGCash, PaymentMethodCOD}

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool {
	_, err := ParsePaymentMethod(string(p))
	return err == nil
}

// RequiresProof is true for e-wallet transfers, which need a receipt upload.
func (p PaymentMethod) RequiresProof() bool {
	return p == PaymentMethodGCash
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return parse(paymentMethods, value, "payment method")
}
