package entities

import "time"

// RequestStatus is the lifecycle of a scoped unit of work requiring
// estimation. The chain is longer than the lead chain and has two rejection
// branches (presale rejection and sale rejection) plus a legacy "estimated"
// state some requests reach directly.
type RequestStatus string

const (
	RequestStatusNew               RequestStatus = "new"
	RequestStatusPendingReview     RequestStatus = "pending_review"
	RequestStatusReviewing         RequestStatus = "reviewing"
	RequestStatusPendingEstimation RequestStatus = "pending_estimation"
	RequestStatusPreSaleReview     RequestStatus = "presale_review"
	RequestStatusSaleReview        RequestStatus = "sale_review"
	RequestStatusAccepted          RequestStatus = "accepted"
	RequestStatusEstimated         RequestStatus = "estimated"
	RequestStatusContract          RequestStatus = "contract"
	RequestStatusRejected          RequestStatus = "rejected"
)

// Request is a scoped unit of work under a lead, or an estimate request a PM
// raises against a running project (ScopeDescription instead of the full
// project fields).
//
// Storage model (DynamoDB):
//   - PK: id
type Request struct {
	ID               string        `json:"id"`
	LeadID           string        `json:"lead_id,omitempty"`
	ProjectID        string        `json:"project_id,omitempty"`
	ClientName       string        `json:"client_name"`
	ProjectName      string        `json:"project_name,omitempty"`
	Description      string        `json:"description,omitempty"`
	ScopeDescription string        `json:"scope_description,omitempty"`
	Status           RequestStatus `json:"status"`
	CreatedBy        string        `json:"created_by"`
	ProjectOverview  string        `json:"project_overview,omitempty"`
	EstimateID       string        `json:"estimate_id,omitempty"`
	RejectionReason  string        `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// IsEstimateRequest reports whether this request was raised by a PM against a
// running project rather than under a lead.
func (r Request) IsEstimateRequest() bool { return r.ProjectID != "" }
