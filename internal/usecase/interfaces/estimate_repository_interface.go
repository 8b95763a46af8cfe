package interfaces

import (
	"context"

	"dealflow/internal/domain/entities"
)

// IEstimateRepository abstracts DynamoDB persistence for Estimate.
//
// Reads follow this codebase's repository convention: a missing estimate
// comes back as the zero value with a nil error, and the use case maps that
// to pkg.ErrNotFound.
type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	GetByShareUUID(ctx context.Context, shareUUID string) (entities.Estimate, error)
	Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	Delete(ctx context.Context, id string) error
}
