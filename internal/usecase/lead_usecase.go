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
	ErrInvalidLeadID     = errors.New("invalid lead id")
	ErrInvalidClientName = errors.New("invalid client name")
)

// ILeadUseCase exposes the lead lifecycle: creation by Sale, the review chain
// handled by PreSale, and the final TechLead approval that creates and links
// the estimate atomically with the "estimated" transition.
type ILeadUseCase interface {
	Create(ctx context.Context, actor entities.Actor, cmd CreateLeadCommand) (entities.Lead, error)
	GetByID(ctx context.Context, id string) (entities.Lead, error)
	List(ctx context.Context) ([]entities.Lead, error)
	SendToReview(ctx context.Context, actor entities.Actor, id string) (entities.Lead, error)
	StartReview(ctx context.Context, actor entities.Actor, id string) (entities.Lead, error)
	CompleteReview(ctx context.Context, actor entities.Actor, id, overview string) (entities.Lead, error)
	Approve(ctx context.Context, actor entities.Actor, id string, seed EstimateSeed) (entities.Lead, error)
}

type CreateLeadCommand struct {
	ClientName string
	Company    string
	Timezone   string
	Source     string
}

// EstimateSeed either links an existing estimate (EstimateID set) or carries
// the fields for the estimate the approval creates as part of the same
// transition.
type EstimateSeed struct {
	EstimateID string
	Name       string
	Roles      []entities.Role
	QAPercent  float64
	PMPercent  float64
	QARate     float64
	PMRate     float64
}

type LeadUseCase struct {
	repo         interfaces.ILeadRepository
	estimateRepo interfaces.IEstimateRepository
	notifier     interfaces.INotifier
}

var _ ILeadUseCase = (*LeadUseCase)(nil)

func NewLeadUseCase(repo interfaces.ILeadRepository, estimateRepo interfaces.IEstimateRepository, notifier interfaces.INotifier) *LeadUseCase {
	return &LeadUseCase{repo: repo, estimateRepo: estimateRepo, notifier: notifier}
}

func (u *LeadUseCase) Create(ctx context.Context, actor entities.Actor, cmd CreateLeadCommand) (entities.Lead, error) {
	if actor.Role != entities.RoleSale && !actor.IsAdmin() {
		return entities.Lead{}, fmt.Errorf("%w: role %s may not create leads", pkg.ErrTransitionDenied, actor.Role)
	}
	cmd.ClientName = strings.TrimSpace(cmd.ClientName)
	if cmd.ClientName == "" {
		return entities.Lead{}, fmt.Errorf("%w: client name is required", pkg.ErrValidation)
	}

	now := time.Now().UTC()
	l := entities.Lead{
		ID:         uuid.NewString(),
		ClientName: cmd.ClientName,
		Company:    strings.TrimSpace(cmd.Company),
		Timezone:   strings.TrimSpace(cmd.Timezone),
		Source:     strings.TrimSpace(cmd.Source),
		Status:     entities.LeadStatusNew,
		CreatedBy:  actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return u.repo.Create(ctx, l)
}

func (u *LeadUseCase) GetByID(ctx context.Context, id string) (entities.Lead, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Lead{}, ErrInvalidLeadID
	}

	l, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Lead{}, err
	}
	if l.ID == "" {
		return entities.Lead{}, fmt.Errorf("%w: lead %s", pkg.ErrNotFound, id)
	}
	return l, nil
}

func (u *LeadUseCase) List(ctx context.Context) ([]entities.Lead, error) {
	return u.repo.List(ctx)
}

func (u *LeadUseCase) SendToReview(ctx context.Context, actor entities.Actor, id string) (entities.Lead, error) {
	return u.transition(ctx, actor, id, entities.LeadStatusPendingReview, workflow.Patch{})
}

func (u *LeadUseCase) StartReview(ctx context.Context, actor entities.Actor, id string) (entities.Lead, error) {
	return u.transition(ctx, actor, id, entities.LeadStatusReviewing, workflow.Patch{})
}

func (u *LeadUseCase) CompleteReview(ctx context.Context, actor entities.Actor, id, overview string) (entities.Lead, error) {
	return u.transition(ctx, actor, id, entities.LeadStatusPendingEstimation, workflow.Patch{ProjectOverview: strings.TrimSpace(overview)})
}

// Approve moves the lead to "estimated" with the estimate linked atomically:
// the estimate is created (or verified, when linking an existing one) only
// after the transition is authorized, and the status write carries the
// estimate id in the same conditional update. An estimate creation failure
// aborts the transition.
func (u *LeadUseCase) Approve(ctx context.Context, actor entities.Actor, id string, seed EstimateSeed) (entities.Lead, error) {
	lead, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Lead{}, err
	}

	estimateID, err := resolveEstimateSeed(ctx, u.estimateRepo, actor, lead.ClientName, seed, func() error {
		patch := workflow.Patch{EstimateID: "candidate"}
		_, err := workflow.LeadMachine.Authorize(string(lead.Status), string(entities.LeadStatusEstimated), actor, lead.CreatedBy, patch)
		return err
	})
	if err != nil {
		return entities.Lead{}, err
	}

	return u.transition(ctx, actor, id, entities.LeadStatusEstimated, workflow.Patch{EstimateID: estimateID})
}

func (u *LeadUseCase) transition(ctx context.Context, actor entities.Actor, id string, target entities.LeadStatus, patch workflow.Patch) (entities.Lead, error) {
	lead, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Lead{}, err
	}

	edge, err := workflow.LeadMachine.Authorize(string(lead.Status), string(target), actor, lead.CreatedBy, patch)
	if err != nil {
		return entities.Lead{}, err
	}

	updated, err := u.repo.SaveTransition(ctx, id, lead.Status, target, patch)
	if err != nil {
		return entities.Lead{}, err
	}

	u.notifier.NotifyTransition(ctx, interfaces.TransitionEvent{
		EntityType: workflow.LeadMachine.Entity,
		EntityID:   updated.ID,
		Action:     edge.Action,
		FromStatus: string(lead.Status),
		ToStatus:   string(updated.Status),
		Actor:      actor,
	})
	return updated, nil
}

// resolveEstimateSeed returns the estimate id to attach to an approval.
// preAuthorize runs before any estimate is created so a denied transition
// never leaves an orphaned estimate behind.
func resolveEstimateSeed(
	ctx context.Context,
	estimateRepo interfaces.IEstimateRepository,
	actor entities.Actor,
	clientName string,
	seed EstimateSeed,
	preAuthorize func() error,
) (string, error) {
	if err := preAuthorize(); err != nil {
		return "", err
	}

	if existing := strings.TrimSpace(seed.EstimateID); existing != "" {
		e, err := estimateRepo.GetByID(ctx, existing)
		if err != nil {
			return "", err
		}
		if e.ID == "" {
			return "", fmt.Errorf("%w: estimate %s", pkg.ErrNotFound, existing)
		}
		return e.ID, nil
	}

	now := time.Now().UTC()
	e := entities.Estimate{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(seed.Name),
		ClientName: clientName,
		Sections:   []entities.Section{},
		Roles:      seed.Roles,
		QAPercent:  seed.QAPercent,
		PMPercent:  seed.PMPercent,
		QARate:     seed.QARate,
		PMRate:     seed.PMRate,
		OwnerID:    actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.Validate(); err != nil {
		return "", err
	}

	created, err := estimateRepo.Create(ctx, e)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
