package entities

import "time"

// LeadStatus is the lifecycle of an inbound sales lead. Transitions are
// driven exclusively by the workflow engine; nothing else writes status.
type LeadStatus string

const (
	LeadStatusNew               LeadStatus = "new"
	LeadStatusPendingReview     LeadStatus = "pending_review"
	LeadStatusReviewing         LeadStatus = "reviewing"
	LeadStatusPendingEstimation LeadStatus = "pending_estimation"
	LeadStatusEstimated         LeadStatus = "estimated"
)

// Lead is the initial sales record before scope is detailed.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Once a lead reaches "estimated" its own lifecycle ends; downstream work
// continues on the linked request/project, never on the lead.
type Lead struct {
	ID              string     `json:"id"`
	ClientName      string     `json:"client_name"`
	Company         string     `json:"company,omitempty"`
	Timezone        string     `json:"timezone,omitempty"`
	Source          string     `json:"source,omitempty"`
	Status          LeadStatus `json:"status"`
	CreatedBy       string     `json:"created_by"`
	ProjectOverview string     `json:"project_overview,omitempty"`
	EstimateID      string     `json:"estimate_id,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
