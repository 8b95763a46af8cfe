package response

import (
	"time"

	"dealflow/internal/domain/entities"
)

type LeadResponse struct {
	ID              string    `json:"id"`
	ClientName      string    `json:"client_name"`
	Company         string    `json:"company,omitempty"`
	Timezone        string    `json:"timezone,omitempty"`
	Source          string    `json:"source,omitempty"`
	Status          string    `json:"status"`
	CreatedBy       string    `json:"created_by"`
	ProjectOverview string    `json:"project_overview,omitempty"`
	EstimateID      string    `json:"estimate_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromLead(l entities.Lead) LeadResponse {
	return LeadResponse{
		ID:              l.ID,
		ClientName:      l.ClientName,
		Company:         l.Company,
		Timezone:        l.Timezone,
		Source:          l.Source,
		Status:          string(l.Status),
		CreatedBy:       l.CreatedBy,
		ProjectOverview: l.ProjectOverview,
		EstimateID:      l.EstimateID,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromLeads(leads []entities.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, FromLead(l))
	}
	return out
}

type RequestResponse struct {
	ID               string    `json:"id"`
	LeadID           string    `json:"lead_id,omitempty"`
	ProjectID        string    `json:"project_id,omitempty"`
	ClientName       string    `json:"client_name"`
	ProjectName      string    `json:"project_name,omitempty"`
	Description      string    `json:"description,omitempty"`
	ScopeDescription string    `json:"scope_description,omitempty"`
	Status           string    `json:"status"`
	CreatedBy        string    `json:"created_by"`
	ProjectOverview  string    `json:"project_overview,omitempty"`
	EstimateID       string    `json:"estimate_id,omitempty"`
	RejectionReason  string    `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func FromRequest(r entities.Request) RequestResponse {
	return RequestResponse{
		ID:               r.ID,
		LeadID:           r.LeadID,
		ProjectID:        r.ProjectID,
		ClientName:       r.ClientName,
		ProjectName:      r.ProjectName,
		Description:      r.Description,
		ScopeDescription: r.ScopeDescription,
		Status:           string(r.Status),
		CreatedBy:        r.CreatedBy,
		ProjectOverview:  r.ProjectOverview,
		EstimateID:       r.EstimateID,
		RejectionReason:  r.RejectionReason,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromRequests(requests []entities.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, FromRequest(r))
	}
	return out
}

type ChangelogEntryResponse struct {
	Action string    `json:"action"`
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
}

type InvoiceResponse struct {
	ID                string    `json:"id"`
	Amount            float64   `json:"amount"`
	Description       string    `json:"description,omitempty"`
	Status            string    `json:"status"`
	ProviderPaymentID string    `json:"provider_payment_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type ProjectResponse struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	RequestID     string                   `json:"request_id,omitempty"`
	EstimateID    string                   `json:"estimate_id,omitempty"`
	Status        string                   `json:"status"`
	CreatedBy     string                   `json:"created_by"`
	Credentials   string                   `json:"credentials,omitempty"`
	Documentation string                   `json:"documentation,omitempty"`
	Changelog     []ChangelogEntryResponse `json:"changelog"`
	Invoices      []InvoiceResponse        `json:"invoices"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func FromProject(p entities.Project) ProjectResponse {
	changelog := make([]ChangelogEntryResponse, 0, len(p.Changelog))
	for _, e := range p.Changelog {
		changelog = append(changelog, ChangelogEntryResponse{Action: e.Action, User: e.User, Date: e.Date})
	}
	invoices := make([]InvoiceResponse, 0, len(p.Invoices))
	for _, inv := range p.Invoices {
		invoices = append(invoices, InvoiceResponse{
			ID:                inv.ID,
			Amount:            inv.Amount,
			Description:       inv.Description,
			Status:            string(inv.Status),
			ProviderPaymentID: inv.ProviderPaymentID,
			CreatedAt:         inv.CreatedAt,
		})
	}
	return ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		RequestID:     p.RequestID,
		EstimateID:    p.EstimateID,
		Status:        string(p.Status),
		CreatedBy:     p.CreatedBy,
		Credentials:   p.Credentials,
		Documentation: p.Documentation,
		Changelog:     changelog,
		Invoices:      invoices,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromProjects(projects []entities.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, FromProject(p))
	}
	return out
}
