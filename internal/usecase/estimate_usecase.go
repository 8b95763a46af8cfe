package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealflow/internal/domain/calc"
	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase/interfaces"
	"dealflow/pkg"

	"github.com/google/uuid"
)

var (
	ErrInvalidEstimateID = errors.New("invalid estimate id")
	ErrInvalidShareToken = errors.New("invalid share token")
	ErrInvalidRoleID     = errors.New("invalid role id")
)

// EstimateView is an estimate together with its computed totals. Totals are
// derived on every read; nothing is cached.
type EstimateView struct {
	Estimate entities.Estimate
	Totals   calc.Totals
}

// IEstimateUseCase exposes estimate CRUD, rate-table edits, and the public
// share-token flow. Content mutations go through Validate before persisting;
// ownership is enforced here even though the auth collaborator already
// identified the actor.
type IEstimateUseCase interface {
	Create(ctx context.Context, actor entities.Actor, cmd CreateEstimateCommand) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (EstimateView, error)
	Update(ctx context.Context, actor entities.Actor, id string, cmd UpdateEstimateCommand) (EstimateView, error)
	AddRole(ctx context.Context, actor entities.Actor, id string, role entities.Role) (entities.Estimate, error)
	UpdateRole(ctx context.Context, actor entities.Actor, id string, role entities.Role) (entities.Estimate, error)
	RemoveRole(ctx context.Context, actor entities.Actor, id, roleID string) (entities.Estimate, error)
	Delete(ctx context.Context, actor entities.Actor, id string) error
	Share(ctx context.Context, actor entities.Actor, id string) (entities.Estimate, error)
	ResolveShare(ctx context.Context, token string) (EstimateView, error)
}

type CreateEstimateCommand struct {
	Name            string
	ClientName      string
	Sections        []entities.Section
	Roles           []entities.Role
	QAPercent       float64
	PMPercent       float64
	QARate          float64
	PMRate          float64
	DiscountPercent float64
}

// UpdateEstimateCommand replaces the section tree and the overhead/discount
// settings wholesale. The editing UI owns tree mutation; the core only
// validates and persists the result.
type UpdateEstimateCommand struct {
	Name            string
	ClientName      string
	Sections        []entities.Section
	QAPercent       float64
	PMPercent       float64
	QARate          float64
	PMRate          float64
	DiscountPercent float64
}

type EstimateUseCase struct {
	repo interfaces.IEstimateRepository
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository) *EstimateUseCase {
	return &EstimateUseCase{repo: repo}
}

func (u *EstimateUseCase) Create(ctx context.Context, actor entities.Actor, cmd CreateEstimateCommand) (entities.Estimate, error) {
	if actor.Role != entities.RoleTechLead && !actor.IsAdmin() {
		return entities.Estimate{}, fmt.Errorf("%w: role %s may not create estimates", pkg.ErrTransitionDenied, actor.Role)
	}

	now := time.Now().UTC()
	e := entities.Estimate{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(cmd.Name),
		ClientName:      strings.TrimSpace(cmd.ClientName),
		Sections:        cmd.Sections,
		Roles:           cmd.Roles,
		QAPercent:       cmd.QAPercent,
		PMPercent:       cmd.PMPercent,
		QARate:          cmd.QARate,
		PMRate:          cmd.PMRate,
		DiscountPercent: cmd.DiscountPercent,
		OwnerID:         actor.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if e.Sections == nil {
		e.Sections = []entities.Section{}
	}
	if e.Roles == nil {
		e.Roles = []entities.Role{}
	}
	if err := e.Validate(); err != nil {
		return entities.Estimate{}, err
	}
	return u.repo.Create(ctx, e)
}

func (u *EstimateUseCase) GetByID(ctx context.Context, id string) (EstimateView, error) {
	e, err := u.getExisting(ctx, id)
	if err != nil {
		return EstimateView{}, err
	}
	return newView(e), nil
}

func (u *EstimateUseCase) Update(ctx context.Context, actor entities.Actor, id string, cmd UpdateEstimateCommand) (EstimateView, error) {
	e, err := u.getOwned(ctx, actor, id)
	if err != nil {
		return EstimateView{}, err
	}

	e.Name = strings.TrimSpace(cmd.Name)
	e.ClientName = strings.TrimSpace(cmd.ClientName)
	e.Sections = cmd.Sections
	if e.Sections == nil {
		e.Sections = []entities.Section{}
	}
	e.QAPercent = cmd.QAPercent
	e.PMPercent = cmd.PMPercent
	e.QARate = cmd.QARate
	e.PMRate = cmd.PMRate
	e.DiscountPercent = cmd.DiscountPercent
	e.UpdatedAt = time.Now().UTC()

	if err := e.Validate(); err != nil {
		return EstimateView{}, err
	}
	updated, err := u.repo.Update(ctx, e)
	if err != nil {
		return EstimateView{}, err
	}
	return newView(updated), nil
}

func (u *EstimateUseCase) AddRole(ctx context.Context, actor entities.Actor, id string, role entities.Role) (entities.Estimate, error) {
	e, err := u.getOwned(ctx, actor, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	for _, existing := range e.Roles {
		if existing.ID == role.ID {
			return entities.Estimate{}, fmt.Errorf("%w: duplicate role id %q", pkg.ErrValidation, role.ID)
		}
	}
	e.Roles = append(e.Roles, role)
	return u.persistRoles(ctx, e)
}

func (u *EstimateUseCase) UpdateRole(ctx context.Context, actor entities.Actor, id string, role entities.Role) (entities.Estimate, error) {
	e, err := u.getOwned(ctx, actor, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	for i, existing := range e.Roles {
		if existing.ID == role.ID {
			e.Roles[i] = role
			return u.persistRoles(ctx, e)
		}
	}
	return entities.Estimate{}, fmt.Errorf("%w: role %s", pkg.ErrNotFound, role.ID)
}

func (u *EstimateUseCase) RemoveRole(ctx context.Context, actor entities.Actor, id, roleID string) (entities.Estimate, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return entities.Estimate{}, ErrInvalidRoleID
	}

	e, err := u.getOwned(ctx, actor, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	for i, existing := range e.Roles {
		if existing.ID == roleID {
			e.Roles = append(e.Roles[:i], e.Roles[i+1:]...)
			return u.persistRoles(ctx, e)
		}
	}
	return entities.Estimate{}, fmt.Errorf("%w: role %s", pkg.ErrNotFound, roleID)
}

// Delete is explicit and authorized; estimates are never deleted as a side
// effect of anything else.
func (u *EstimateUseCase) Delete(ctx context.Context, actor entities.Actor, id string) error {
	e, err := u.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	return u.repo.Delete(ctx, e.ID)
}

// Share issues the opaque public-link token. Regenerating replaces the old
// token; resolution needs no authentication by design.
func (u *EstimateUseCase) Share(ctx context.Context, actor entities.Actor, id string) (entities.Estimate, error) {
	e, err := u.getOwned(ctx, actor, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	e.ShareUUID = uuid.NewString()
	e.UpdatedAt = time.Now().UTC()
	return u.repo.Update(ctx, e)
}

func (u *EstimateUseCase) ResolveShare(ctx context.Context, token string) (EstimateView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return EstimateView{}, ErrInvalidShareToken
	}

	e, err := u.repo.GetByShareUUID(ctx, token)
	if err != nil {
		return EstimateView{}, err
	}
	if e.ID == "" {
		return EstimateView{}, fmt.Errorf("%w: share token", pkg.ErrNotFound)
	}
	return newView(e), nil
}

func (u *EstimateUseCase) getExisting(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, fmt.Errorf("%w: estimate %s", pkg.ErrNotFound, id)
	}
	return e, nil
}

func (u *EstimateUseCase) getOwned(ctx context.Context, actor entities.Actor, id string) (entities.Estimate, error) {
	e, err := u.getExisting(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if !actor.IsAdmin() && e.OwnerID != actor.ID {
		return entities.Estimate{}, fmt.Errorf("%w: estimate %s belongs to another owner", pkg.ErrTransitionDenied, id)
	}
	return e, nil
}

func (u *EstimateUseCase) persistRoles(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	e.UpdatedAt = time.Now().UTC()
	if err := e.Validate(); err != nil {
		return entities.Estimate{}, err
	}
	return u.repo.Update(ctx, e)
}

func newView(e entities.Estimate) EstimateView {
	return EstimateView{
		Estimate: e,
		Totals: calc.Compute(calc.Input{
			Sections:        e.Sections,
			Roles:           e.Roles,
			QAPercent:       e.QAPercent,
			PMPercent:       e.PMPercent,
			QARate:          e.QARate,
			PMRate:          e.PMRate,
			DiscountPercent: e.DiscountPercent,
		}),
	}
}
