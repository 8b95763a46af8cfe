package interfaces

import (
	"context"

	"dealflow/internal/domain/entities"
)

// IProjectRepository abstracts DynamoDB persistence for Project.
//
// SaveTransition appends the changelog entry in the same conditional write
// that moves status, keyed on the expected current status (pkg.ErrConflict on
// mismatch, pkg.ErrNotFound when missing). AppendInvoice appends the invoice
// and its changelog entry without touching status.
type IProjectRepository interface {
	Create(ctx context.Context, p entities.Project) (entities.Project, error)
	GetByID(ctx context.Context, id string) (entities.Project, error)
	List(ctx context.Context) ([]entities.Project, error)
	SaveTransition(ctx context.Context, id string, expected, next entities.ProjectStatus, entry entities.ChangelogEntry) (entities.Project, error)
	AppendInvoice(ctx context.Context, id string, inv entities.Invoice, entry entities.ChangelogEntry) (entities.Project, error)
}
