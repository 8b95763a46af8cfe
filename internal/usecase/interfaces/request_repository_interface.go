package interfaces

import (
	"context"

	"dealflow/internal/domain/entities"
	"dealflow/internal/domain/workflow"
)

// IRequestRepository abstracts DynamoDB persistence for Request.
//
// SaveTransition follows the same compare-and-swap contract as the lead
// repository: commit only when the stored status equals expected, otherwise
// pkg.ErrConflict (or pkg.ErrNotFound for a missing request).
type IRequestRepository interface {
	Create(ctx context.Context, r entities.Request) (entities.Request, error)
	GetByID(ctx context.Context, id string) (entities.Request, error)
	List(ctx context.Context) ([]entities.Request, error)
	SaveTransition(ctx context.Context, id string, expected, next entities.RequestStatus, patch workflow.Patch) (entities.Request, error)
}
