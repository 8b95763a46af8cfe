package interfaces

import (
	"context"

	"dealflow/internal/domain/entities"
	"dealflow/internal/domain/workflow"
)

// ILeadRepository abstracts DynamoDB persistence for Lead.
//
// SaveTransition is the atomic commit of the workflow engine: it writes the
// new status plus the patch fields only if the stored status still equals
// expected. A mismatch returns pkg.ErrConflict; a missing lead returns
// pkg.ErrNotFound. No partial write ever happens.
type ILeadRepository interface {
	Create(ctx context.Context, l entities.Lead) (entities.Lead, error)
	GetByID(ctx context.Context, id string) (entities.Lead, error)
	List(ctx context.Context) ([]entities.Lead, error)
	SaveTransition(ctx context.Context, id string, expected, next entities.LeadStatus, patch workflow.Patch) (entities.Lead, error)
}
