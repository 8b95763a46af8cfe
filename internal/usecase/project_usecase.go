package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealflow/internal/domain/entities"
	"dealflow/internal/domain/workflow"
	"dealflow/internal/usecase/interfaces"
	"dealflow/pkg"

	"github.com/google/uuid"
)

var (
	ErrInvalidProjectID     = errors.New("invalid project id")
	ErrInvalidInvoiceAmount = errors.New("invalid invoice amount")

	// ErrPaymentGatewayUnavailable is returned when invoice creation is
	// attempted but no payment gateway was configured at startup.
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")
)

// IProjectUseCase exposes the contracted-engagement lifecycle plus invoice
// creation against the payment gateway. Projects are never created here; the
// request conversion is the single creation point.
type IProjectUseCase interface {
	GetByID(ctx context.Context, id string) (entities.Project, error)
	List(ctx context.Context) ([]entities.Project, error)
	Activate(ctx context.Context, actor entities.Actor, id string) (entities.Project, error)
	Pause(ctx context.Context, actor entities.Actor, id string) (entities.Project, error)
	Resume(ctx context.Context, actor entities.Actor, id string) (entities.Project, error)
	Finish(ctx context.Context, actor entities.Actor, id string) (entities.Project, error)
	CreateInvoice(ctx context.Context, actor entities.Actor, id string, amount float64, description string) (entities.Project, error)
}

type ProjectUseCase struct {
	repo     interfaces.IProjectRepository
	gateway  interfaces.IPaymentGateway
	notifier interfaces.INotifier
}

var _ IProjectUseCase = (*ProjectUseCase)(nil)

func NewProjectUseCase(repo interfaces.IProjectRepository, gateway interfaces.IPaymentGateway, notifier interfaces.INotifier) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, gateway: gateway, notifier: notifier}
}

func (u *ProjectUseCase) GetByID(ctx context.Context, id string) (entities.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Project{}, ErrInvalidProjectID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Project{}, err
	}
	if p.ID == "" {
		return entities.Project{}, fmt.Errorf("%w: project %s", pkg.ErrNotFound, id)
	}
	return p, nil
}

func (u *ProjectUseCase) List(ctx context.Context) ([]entities.Project, error) {
	return u.repo.List(ctx)
}

func (u *ProjectUseCase) Activate(ctx context.Context, actor entities.Actor, id string) (entities.Project, error) {
	return u.transition(ctx, actor, id, entities.ProjectStatusActive)
}

func (u *ProjectUseCase) Pause(ctx context.Context, actor entities.Actor, id string) (entities.Project, error) {
	return u.transition(ctx, actor, id, entities.ProjectStatusPaused)
}

func (u *ProjectUseCase) Resume(ctx context.Context, actor entities.Actor, id string) (entities.Project, error) {
	return u.transition(ctx, actor, id, entities.ProjectStatusActive)
}

func (u *ProjectUseCase) Finish(ctx context.Context, actor entities.Actor, id string) (entities.Project, error) {
	return u.transition(ctx, actor, id, entities.ProjectStatusFinished)
}

// CreateInvoice bills the project through the payment gateway and appends the
// invoice (with the provider payment id) and a changelog entry in one write.
func (u *ProjectUseCase) CreateInvoice(ctx context.Context, actor entities.Actor, id string, amount float64, description string) (entities.Project, error) {
	if actor.Role != entities.RolePM && !actor.IsAdmin() {
		return entities.Project{}, fmt.Errorf("%w: role %s may not create invoices", pkg.ErrTransitionDenied, actor.Role)
	}
	if amount <= 0 {
		return entities.Project{}, ErrInvalidInvoiceAmount
	}
	if u.gateway == nil {
		return entities.Project{}, ErrPaymentGatewayUnavailable
	}

	project, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Project{}, err
	}
	if project.Status == entities.ProjectStatusFinished {
		return entities.Project{}, fmt.Errorf("%w: cannot invoice a finished project", pkg.ErrValidation)
	}

	now := time.Now().UTC()
	inv := entities.Invoice{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Status:      entities.InvoiceStatusPending,
		CreatedAt:   now,
	}

	providerID, providerStatus, err := u.gateway.CreateInvoicePayment(ctx, inv.ID, amount, inv.Description)
	if err != nil {
		return entities.Project{}, err
	}
	inv.ProviderPaymentID = providerID
	inv.Status = invoiceStatusFromProvider(providerStatus)

	entry := entities.ChangelogEntry{Action: "invoice " + inv.ID + " created", User: actor.ID, Date: now}
	return u.repo.AppendInvoice(ctx, project.ID, inv, entry)
}

func (u *ProjectUseCase) transition(ctx context.Context, actor entities.Actor, id string, target entities.ProjectStatus) (entities.Project, error) {
	project, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Project{}, err
	}

	edge, err := workflow.ProjectMachine.Authorize(string(project.Status), string(target), actor, project.CreatedBy, workflow.Patch{})
	if err != nil {
		return entities.Project{}, err
	}

	entry := entities.ChangelogEntry{Action: edge.Action, User: actor.ID, Date: time.Now().UTC()}
	updated, err := u.repo.SaveTransition(ctx, id, project.Status, target, entry)
	if err != nil {
		return entities.Project{}, err
	}

	u.notifier.NotifyTransition(ctx, interfaces.TransitionEvent{
		EntityType: workflow.ProjectMachine.Entity,
		EntityID:   updated.ID,
		Action:     edge.Action,
		FromStatus: string(project.Status),
		ToStatus:   string(updated.Status),
		Actor:      actor,
	})
	return updated, nil
}

func invoiceStatusFromProvider(providerStatus string) entities.InvoiceStatus {
	switch strings.ToLower(providerStatus) {
	case "approved", "accredited":
		return entities.InvoiceStatusApproved
	case "rejected", "cancelled", "denied":
		return entities.InvoiceStatusDenied
	default:
		return entities.InvoiceStatusPending
	}
}
