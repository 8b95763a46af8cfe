package interfaces

import "context"

// IPaymentGateway abstracts the external payment provider (e.g. Mercado
// Pago) used to bill contracted projects. The provider payment id and status
// are persisted on the invoice for traceability.
type IPaymentGateway interface {
	CreateInvoicePayment(ctx context.Context, invoiceID string, amount float64, description string) (providerPaymentID string, providerStatus string, err error)
}
