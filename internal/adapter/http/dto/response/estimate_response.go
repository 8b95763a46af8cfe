package response

import (
	"time"

	"dealflow/internal/domain/calc"
	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase"
)

type EstimateResponse struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	ClientName      string             `json:"client_name"`
	Sections        []entities.Section `json:"sections"`
	Roles           []entities.Role    `json:"roles"`
	QAPercent       float64            `json:"qa_percent"`
	PMPercent       float64            `json:"pm_percent"`
	QARate          float64            `json:"qa_rate"`
	PMRate          float64            `json:"pm_rate"`
	DiscountPercent float64            `json:"discount_percent"`
	OwnerID         string             `json:"owner_id"`
	ShareUUID       string             `json:"share_uuid,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:              e.ID,
		Name:            e.Name,
		ClientName:      e.ClientName,
		Sections:        e.Sections,
		Roles:           e.Roles,
		QAPercent:       e.QAPercent,
		PMPercent:       e.PMPercent,
		QARate:          e.QARate,
		PMRate:          e.PMRate,
		DiscountPercent: e.DiscountPercent,
		OwnerID:         e.OwnerID,
		ShareUUID:       e.ShareUUID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// EstimateViewResponse is the estimate plus its freshly computed totals; the
// report/PDF renderer consumes exactly this shape.
type EstimateViewResponse struct {
	Estimate EstimateResponse `json:"estimate"`
	Totals   calc.Totals      `json:"totals"`
}

func FromEstimateView(v usecase.EstimateView) EstimateViewResponse {
	return EstimateViewResponse{
		Estimate: FromEstimate(v.Estimate),
		Totals:   v.Totals,
	}
}
