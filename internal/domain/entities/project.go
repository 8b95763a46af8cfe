package entities

import "time"

// ProjectStatus is the lifecycle of a contracted engagement. "finished" is
// the only terminal state; there is no un-finish transition.
type ProjectStatus string

const (
	ProjectStatusNew      ProjectStatus = "new"
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusPaused   ProjectStatus = "paused"
	ProjectStatusFinished ProjectStatus = "finished"
)

// ChangelogEntry records one project action. The changelog is append-only:
// entries are never edited or removed.
type ChangelogEntry struct {
	Action string    `json:"action"`
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
}

// InvoiceStatus mirrors the payment provider outcome for a project invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusApproved InvoiceStatus = "approved"
	InvoiceStatusDenied   InvoiceStatus = "denied"
)

// Invoice is one billing request issued against a contracted project. The
// provider payment id ties it back to the payment gateway for traceability.
type Invoice struct {
	ID                string        `json:"id"`
	Amount            float64       `json:"amount"`
	Description       string        `json:"description,omitempty"`
	Status            InvoiceStatus `json:"status"`
	ProviderPaymentID string        `json:"provider_payment_id,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Project is a contracted engagement. Created only when a request converts to
// contract; that conversion is the single project creation point.
//
// Storage model (DynamoDB):
//   - PK: id
type Project struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	RequestID     string           `json:"request_id,omitempty"`
	EstimateID    string           `json:"estimate_id,omitempty"`
	Status        ProjectStatus    `json:"status"`
	CreatedBy     string           `json:"created_by"`
	Credentials   string           `json:"credentials,omitempty"`
	Documentation string           `json:"documentation,omitempty"`
	Changelog     []ChangelogEntry `json:"changelog"`
	Invoices      []Invoice        `json:"invoices"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
