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
	ErrInvalidRequestID = errors.New("invalid request id")
)

// IRequestUseCase exposes the request lifecycle: the review chain, both
// rejection branches, the TechLead approval that links an estimate, and the
// contract conversion that constructs the project.
type IRequestUseCase interface {
	Create(ctx context.Context, actor entities.Actor, cmd CreateRequestCommand) (entities.Request, error)
	CreateEstimateRequest(ctx context.Context, actor entities.Actor, cmd CreateEstimateRequestCommand) (entities.Request, error)
	GetByID(ctx context.Context, id string) (entities.Request, error)
	List(ctx context.Context) ([]entities.Request, error)
	SendToReview(ctx context.Context, actor entities.Actor, id string) (entities.Request, error)
	StartReview(ctx context.Context, actor entities.Actor, id string) (entities.Request, error)
	CompleteReview(ctx context.Context, actor entities.Actor, id, overview string) (entities.Request, error)
	Reject(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error)
	Resubmit(ctx context.Context, actor entities.Actor, id string) (entities.Request, error)
	Approve(ctx context.Context, actor entities.Actor, id string, seed EstimateSeed) (entities.Request, error)
	SendToSale(ctx context.Context, actor entities.Actor, id string) (entities.Request, error)
	RequestChanges(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error)
	Accept(ctx context.Context, actor entities.Actor, id string) (entities.Request, error)
	RequestEdit(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error)
	SaleReject(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error)
	ConvertToContract(ctx context.Context, actor entities.Actor, id string) (entities.Project, error)
}

type CreateRequestCommand struct {
	LeadID      string
	ClientName  string
	ProjectName string
	Description string
}

// CreateEstimateRequestCommand is the PM variant raised against a running
// project: scope description instead of the full project fields.
type CreateEstimateRequestCommand struct {
	ProjectID        string
	ScopeDescription string
}

type RequestUseCase struct {
	repo         interfaces.IRequestRepository
	leadRepo     interfaces.ILeadRepository
	projectRepo  interfaces.IProjectRepository
	estimateRepo interfaces.IEstimateRepository
	notifier     interfaces.INotifier
}

var _ IRequestUseCase = (*RequestUseCase)(nil)

func NewRequestUseCase(
	repo interfaces.IRequestRepository,
	leadRepo interfaces.ILeadRepository,
	projectRepo interfaces.IProjectRepository,
	estimateRepo interfaces.IEstimateRepository,
	notifier interfaces.INotifier,
) *RequestUseCase {
	return &RequestUseCase{
		repo:         repo,
		leadRepo:     leadRepo,
		projectRepo:  projectRepo,
		estimateRepo: estimateRepo,
		notifier:     notifier,
	}
}

func (u *RequestUseCase) Create(ctx context.Context, actor entities.Actor, cmd CreateRequestCommand) (entities.Request, error) {
	if actor.Role != entities.RoleSale && !actor.IsAdmin() {
		return entities.Request{}, fmt.Errorf("%w: role %s may not create requests", pkg.ErrTransitionDenied, actor.Role)
	}
	cmd.ClientName = strings.TrimSpace(cmd.ClientName)
	if cmd.ClientName == "" {
		return entities.Request{}, fmt.Errorf("%w: client name is required", pkg.ErrValidation)
	}

	leadID := strings.TrimSpace(cmd.LeadID)
	if leadID != "" {
		lead, err := u.leadRepo.GetByID(ctx, leadID)
		if err != nil {
			return entities.Request{}, err
		}
		if lead.ID == "" {
			return entities.Request{}, fmt.Errorf("%w: lead %s", pkg.ErrNotFound, leadID)
		}
	}

	now := time.Now().UTC()
	r := entities.Request{
		ID:          uuid.NewString(),
		LeadID:      leadID,
		ClientName:  cmd.ClientName,
		ProjectName: strings.TrimSpace(cmd.ProjectName),
		Description: strings.TrimSpace(cmd.Description),
		Status:      entities.RequestStatusNew,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return u.repo.Create(ctx, r)
}

func (u *RequestUseCase) CreateEstimateRequest(ctx context.Context, actor entities.Actor, cmd CreateEstimateRequestCommand) (entities.Request, error) {
	if actor.Role != entities.RolePM && !actor.IsAdmin() {
		return entities.Request{}, fmt.Errorf("%w: role %s may not create estimate requests", pkg.ErrTransitionDenied, actor.Role)
	}
	cmd.ScopeDescription = strings.TrimSpace(cmd.ScopeDescription)
	if cmd.ScopeDescription == "" {
		return entities.Request{}, fmt.Errorf("%w: scope description is required", pkg.ErrValidation)
	}

	projectID := strings.TrimSpace(cmd.ProjectID)
	project, err := u.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return entities.Request{}, err
	}
	if project.ID == "" {
		return entities.Request{}, fmt.Errorf("%w: project %s", pkg.ErrNotFound, projectID)
	}

	now := time.Now().UTC()
	r := entities.Request{
		ID:               uuid.NewString(),
		ProjectID:        project.ID,
		ClientName:       project.Name,
		ScopeDescription: cmd.ScopeDescription,
		Status:           entities.RequestStatusNew,
		CreatedBy:        actor.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return u.repo.Create(ctx, r)
}

func (u *RequestUseCase) GetByID(ctx context.Context, id string) (entities.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Request{}, ErrInvalidRequestID
	}

	r, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Request{}, err
	}
	if r.ID == "" {
		return entities.Request{}, fmt.Errorf("%w: request %s", pkg.ErrNotFound, id)
	}
	return r, nil
}

func (u *RequestUseCase) List(ctx context.Context) ([]entities.Request, error) {
	return u.repo.List(ctx)
}

func (u *RequestUseCase) SendToReview(ctx context.Context, actor entities.Actor, id string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusPendingReview, workflow.Patch{})
}

func (u *RequestUseCase) StartReview(ctx context.Context, actor entities.Actor, id string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusReviewing, workflow.Patch{})
}

func (u *RequestUseCase) CompleteReview(ctx context.Context, actor entities.Actor, id, overview string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusPendingEstimation, workflow.Patch{ProjectOverview: strings.TrimSpace(overview)})
}

func (u *RequestUseCase) Reject(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusRejected, workflow.Patch{RejectionReason: strings.TrimSpace(reason)})
}

// Resubmit is the only path out of Rejected: back to pending review.
func (u *RequestUseCase) Resubmit(ctx context.Context, actor entities.Actor, id string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusPendingReview, workflow.Patch{})
}

// Approve moves the request to presale review with the estimate linked
// atomically; see LeadUseCase.Approve for the ordering guarantees.
func (u *RequestUseCase) Approve(ctx context.Context, actor entities.Actor, id string, seed EstimateSeed) (entities.Request, error) {
	req, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Request{}, err
	}

	estimateID, err := resolveEstimateSeed(ctx, u.estimateRepo, actor, req.ClientName, seed, func() error {
		patch := workflow.Patch{EstimateID: "candidate"}
		_, err := workflow.RequestMachine.Authorize(string(req.Status), string(entities.RequestStatusPreSaleReview), actor, req.CreatedBy, patch)
		return err
	})
	if err != nil {
		return entities.Request{}, err
	}

	return u.transition(ctx, actor, id, entities.RequestStatusPreSaleReview, workflow.Patch{EstimateID: estimateID})
}

func (u *RequestUseCase) SendToSale(ctx context.Context, actor entities.Actor, id string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusSaleReview, workflow.Patch{})
}

func (u *RequestUseCase) RequestChanges(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusPendingEstimation, workflow.Patch{RejectionReason: strings.TrimSpace(reason)})
}

func (u *RequestUseCase) Accept(ctx context.Context, actor entities.Actor, id string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusAccepted, workflow.Patch{})
}

// RequestEdit returns the request from sale review straight to the TechLead,
// bypassing presale.
func (u *RequestUseCase) RequestEdit(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusPendingEstimation, workflow.Patch{RejectionReason: strings.TrimSpace(reason)})
}

func (u *RequestUseCase) SaleReject(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error) {
	return u.transition(ctx, actor, id, entities.RequestStatusRejected, workflow.Patch{RejectionReason: strings.TrimSpace(reason)})
}

// ConvertToContract is the only place a project is created. The project is
// constructed first and the request status committed second: a project
// creation failure aborts the conversion, and a status conflict surfaces to
// the caller for retry.
func (u *RequestUseCase) ConvertToContract(ctx context.Context, actor entities.Actor, id string) (entities.Project, error) {
	req, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Project{}, err
	}

	edge, err := workflow.RequestMachine.Authorize(string(req.Status), string(entities.RequestStatusContract), actor, req.CreatedBy, workflow.Patch{})
	if err != nil {
		return entities.Project{}, err
	}

	name := req.ProjectName
	if name == "" {
		name = req.ClientName
	}
	now := time.Now().UTC()
	project := entities.Project{
		ID:         uuid.NewString(),
		Name:       name,
		RequestID:  req.ID,
		EstimateID: req.EstimateID,
		Status:     entities.ProjectStatusNew,
		CreatedBy:  actor.ID,
		Changelog: []entities.ChangelogEntry{
			{Action: "created from request " + req.ID, User: actor.ID, Date: now},
		},
		Invoices:  []entities.Invoice{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	project, err = u.projectRepo.Create(ctx, project)
	if err != nil {
		return entities.Project{}, err
	}

	updated, err := u.repo.SaveTransition(ctx, id, req.Status, entities.RequestStatusContract, workflow.Patch{})
	if err != nil {
		return entities.Project{}, err
	}

	u.notifier.NotifyTransition(ctx, interfaces.TransitionEvent{
		EntityType: workflow.RequestMachine.Entity,
		EntityID:   updated.ID,
		Action:     edge.Action,
		FromStatus: string(req.Status),
		ToStatus:   string(updated.Status),
		Actor:      actor,
	})
	return project, nil
}

func (u *RequestUseCase) transition(ctx context.Context, actor entities.Actor, id string, target entities.RequestStatus, patch workflow.Patch) (entities.Request, error) {
	req, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Request{}, err
	}

	edge, err := workflow.RequestMachine.Authorize(string(req.Status), string(target), actor, req.CreatedBy, patch)
	if err != nil {
		return entities.Request{}, err
	}

	updated, err := u.repo.SaveTransition(ctx, id, req.Status, target, patch)
	if err != nil {
		return entities.Request{}, err
	}

	u.notifier.NotifyTransition(ctx, interfaces.TransitionEvent{
		EntityType: workflow.RequestMachine.Entity,
		EntityID:   updated.ID,
		Action:     edge.Action,
		FromStatus: string(req.Status),
		ToStatus:   string(updated.Status),
		Actor:      actor,
	})
	return updated, nil
}
