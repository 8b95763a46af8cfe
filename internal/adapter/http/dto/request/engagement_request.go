package request

import "dealflow/internal/usecase"

type CreateLeadRequest struct {
	ClientName string `json:"client_name" binding:"required"`
	Company    string `json:"company"`
	Timezone   string `json:"timezone"`
	Source     string `json:"source"`
}

func (r CreateLeadRequest) ToCommand() usecase.CreateLeadCommand {
	return usecase.CreateLeadCommand{
		ClientName: r.ClientName,
		Company:    r.Company,
		Timezone:   r.Timezone,
		Source:     r.Source,
	}
}

type CreateRequestRequest struct {
	LeadID      string `json:"lead_id"`
	ClientName  string `json:"client_name" binding:"required"`
	ProjectName string `json:"project_name"`
	Description string `json:"description"`
}

func (r CreateRequestRequest) ToCommand() usecase.CreateRequestCommand {
	return usecase.CreateRequestCommand{
		LeadID:      r.LeadID,
		ClientName:  r.ClientName,
		ProjectName: r.ProjectName,
		Description: r.Description,
	}
}

type CreateEstimateRequestRequest struct {
	ProjectID        string `json:"project_id" binding:"required"`
	ScopeDescription string `json:"scope_description"`
}

func (r CreateEstimateRequestRequest) ToCommand() usecase.CreateEstimateRequestCommand {
	return usecase.CreateEstimateRequestCommand{
		ProjectID:        r.ProjectID,
		ScopeDescription: r.ScopeDescription,
	}
}

// CompleteReviewRequest carries the overview written atomically with the
// reviewing -> pending estimation transition. Deliberately not binding:required;
// the workflow engine owns that validation.
type CompleteReviewRequest struct {
	ProjectOverview string `json:"project_overview"`
}

// RejectRequest carries the reason for any rejection/rework branch.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ApproveRequest links an existing estimate or seeds the one created as part
// of the approval transition.
type ApproveRequest struct {
	EstimateID string        `json:"estimate_id"`
	Name       string        `json:"name"`
	Roles      []RoleRequest `json:"roles"`
	QAPercent  float64       `json:"qa_percent"`
	PMPercent  float64       `json:"pm_percent"`
	QARate     float64       `json:"qa_rate"`
	PMRate     float64       `json:"pm_rate"`
}

func (r ApproveRequest) ToSeed() usecase.EstimateSeed {
	return usecase.EstimateSeed{
		EstimateID: r.EstimateID,
		Name:       r.Name,
		Roles:      rolesToEntities(r.Roles),
		QAPercent:  r.QAPercent,
		PMPercent:  r.PMPercent,
		QARate:     r.QARate,
		PMRate:     r.PMRate,
	}
}

type CreateInvoiceRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}
