package usecase

import (
	"context"
	"errors"
	"testing"

	"dealflow/internal/domain/entities"
	"dealflow/internal/domain/workflow"
	"dealflow/internal/usecase/interfaces"
	"dealflow/internal/usecase/interfaces/mocks"
	"dealflow/pkg"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	saleActor     = entities.Actor{ID: "sale-1", Role: entities.RoleSale}
	presaleActor  = entities.Actor{ID: "presale-1", Role: entities.RolePreSale}
	techleadActor = entities.Actor{ID: "techlead-1", Role: entities.RoleTechLead}
	pmActor       = entities.Actor{ID: "pm-1", Role: entities.RolePM}
	adminActor    = entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}
)

type leadUseCaseMocks struct {
	repo         *mocks.MockILeadRepository
	estimateRepo *mocks.MockIEstimateRepository
	notifier     *mocks.MockINotifier
}

func newLeadUseCase(t *testing.T) (*LeadUseCase, leadUseCaseMocks) {
	ctrl := gomock.NewController(t)
	m := leadUseCaseMocks{
		repo:         mocks.NewMockILeadRepository(ctrl),
		estimateRepo: mocks.NewMockIEstimateRepository(ctrl),
		notifier:     mocks.NewMockINotifier(ctrl),
	}
	return NewLeadUseCase(m.repo, m.estimateRepo, m.notifier), m
}

func TestLeadUseCase_Create(t *testing.T) {
	t.Run("sale creates a lead", func(t *testing.T) {
		u, m := newLeadUseCase(t)

		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, l entities.Lead) (entities.Lead, error) {
				require.NotEmpty(t, l.ID)
				require.Equal(t, "Acme", l.ClientName)
				require.Equal(t, entities.LeadStatusNew, l.Status)
				require.Equal(t, saleActor.ID, l.CreatedBy)
				return l, nil
			})

		lead, err := u.Create(context.Background(), saleActor, CreateLeadCommand{ClientName: "  Acme  "})
		require.NoError(t, err)
		require.Equal(t, "Acme", lead.ClientName)
	})

	t.Run("non-sale role is denied", func(t *testing.T) {
		u, _ := newLeadUseCase(t)

		_, err := u.Create(context.Background(), pmActor, CreateLeadCommand{ClientName: "Acme"})
		require.ErrorIs(t, err, pkg.ErrTransitionDenied)
	})

	t.Run("client name is required", func(t *testing.T) {
		u, _ := newLeadUseCase(t)

		_, err := u.Create(context.Background(), saleActor, CreateLeadCommand{ClientName: "   "})
		require.ErrorIs(t, err, pkg.ErrValidation)
	})
}

func TestLeadUseCase_GetByID(t *testing.T) {
	t.Run("blank id", func(t *testing.T) {
		u, _ := newLeadUseCase(t)
		_, err := u.GetByID(context.Background(), "  ")
		require.ErrorIs(t, err, ErrInvalidLeadID)
	})

	t.Run("missing lead maps to not found", func(t *testing.T) {
		u, m := newLeadUseCase(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(entities.Lead{}, nil)

		_, err := u.GetByID(context.Background(), "l1")
		require.ErrorIs(t, err, pkg.ErrNotFound)
	})
}

func TestLeadUseCase_SendToReview(t *testing.T) {
	u, m := newLeadUseCase(t)

	lead := entities.Lead{ID: "l1", ClientName: "Acme", Status: entities.LeadStatusNew, CreatedBy: saleActor.ID}
	m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil)
	m.repo.EXPECT().
		SaveTransition(gomock.Any(), "l1", entities.LeadStatusNew, entities.LeadStatusPendingReview, workflow.Patch{}).
		Return(entities.Lead{ID: "l1", Status: entities.LeadStatusPendingReview}, nil)
	m.notifier.EXPECT().NotifyTransition(gomock.Any(), interfaces.TransitionEvent{
		EntityType: "lead",
		EntityID:   "l1",
		Action:     "send_to_presale",
		FromStatus: "new",
		ToStatus:   "pending_review",
		Actor:      saleActor,
	})

	updated, err := u.SendToReview(context.Background(), saleActor, "l1")
	require.NoError(t, err)
	require.Equal(t, entities.LeadStatusPendingReview, updated.Status)
}

func TestLeadUseCase_SendToReview_OnlyOwner(t *testing.T) {
	u, m := newLeadUseCase(t)

	lead := entities.Lead{ID: "l1", Status: entities.LeadStatusNew, CreatedBy: "someone-else"}
	m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil)

	_, err := u.SendToReview(context.Background(), saleActor, "l1")
	require.ErrorIs(t, err, pkg.ErrTransitionDenied)
}

func TestLeadUseCase_CompleteReview_RequiresOverview(t *testing.T) {
	u, m := newLeadUseCase(t)

	lead := entities.Lead{ID: "l1", Status: entities.LeadStatusReviewing, CreatedBy: saleActor.ID}
	m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil)

	_, err := u.CompleteReview(context.Background(), presaleActor, "l1", "   ")
	require.ErrorIs(t, err, pkg.ErrValidation)
}

func TestLeadUseCase_ConflictSurfacesToCaller(t *testing.T) {
	u, m := newLeadUseCase(t)

	lead := entities.Lead{ID: "l1", Status: entities.LeadStatusPendingReview, CreatedBy: saleActor.ID}
	m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil)
	m.repo.EXPECT().
		SaveTransition(gomock.Any(), "l1", entities.LeadStatusPendingReview, entities.LeadStatusReviewing, workflow.Patch{}).
		Return(entities.Lead{}, pkg.ErrConflict)

	_, err := u.StartReview(context.Background(), presaleActor, "l1")
	require.ErrorIs(t, err, pkg.ErrConflict)
}

func TestLeadUseCase_Approve(t *testing.T) {
	seed := EstimateSeed{
		Name:      "MVP",
		Roles:     []entities.Role{{ID: "backend", Label: "Backend", HourlyRate: 45, HoursPerDay: 8}},
		QAPercent: 20,
		PMPercent: 15,
		QARate:    40,
		PMRate:    50,
	}

	t.Run("creates the estimate and links it in the transition", func(t *testing.T) {
		u, m := newLeadUseCase(t)

		lead := entities.Lead{ID: "l1", ClientName: "Acme", Status: entities.LeadStatusPendingEstimation, CreatedBy: saleActor.ID}
		m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil).Times(2)

		var createdID string
		m.estimateRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				require.Equal(t, "Acme", e.ClientName)
				require.Equal(t, techleadActor.ID, e.OwnerID)
				createdID = e.ID
				return e, nil
			})
		m.repo.EXPECT().
			SaveTransition(gomock.Any(), "l1", entities.LeadStatusPendingEstimation, entities.LeadStatusEstimated, gomock.Any()).
			DoAndReturn(func(_ context.Context, id string, _, next entities.LeadStatus, patch workflow.Patch) (entities.Lead, error) {
				require.Equal(t, createdID, patch.EstimateID)
				return entities.Lead{ID: id, Status: next, EstimateID: patch.EstimateID}, nil
			})
		m.notifier.EXPECT().NotifyTransition(gomock.Any(), gomock.Any())

		updated, err := u.Approve(context.Background(), techleadActor, "l1", seed)
		require.NoError(t, err)
		require.Equal(t, entities.LeadStatusEstimated, updated.Status)
		require.Equal(t, createdID, updated.EstimateID)
	})

	t.Run("denied transition creates no estimate", func(t *testing.T) {
		u, m := newLeadUseCase(t)

		lead := entities.Lead{ID: "l1", Status: entities.LeadStatusPendingEstimation, CreatedBy: saleActor.ID}
		m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil)

		_, err := u.Approve(context.Background(), presaleActor, "l1", seed)
		require.ErrorIs(t, err, pkg.ErrTransitionDenied)
	})

	t.Run("estimate creation failure aborts the transition", func(t *testing.T) {
		u, m := newLeadUseCase(t)

		lead := entities.Lead{ID: "l1", Status: entities.LeadStatusPendingEstimation, CreatedBy: saleActor.ID}
		m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil)
		m.estimateRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Estimate{}, errors.New("table throttled"))

		_, err := u.Approve(context.Background(), techleadActor, "l1", seed)
		require.EqualError(t, err, "table throttled")
	})

	t.Run("links an existing estimate without creating one", func(t *testing.T) {
		u, m := newLeadUseCase(t)

		lead := entities.Lead{ID: "l1", Status: entities.LeadStatusPendingEstimation, CreatedBy: saleActor.ID}
		m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil).Times(2)
		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "e9").Return(entities.Estimate{ID: "e9"}, nil)
		m.repo.EXPECT().
			SaveTransition(gomock.Any(), "l1", entities.LeadStatusPendingEstimation, entities.LeadStatusEstimated, workflow.Patch{EstimateID: "e9"}).
			Return(entities.Lead{ID: "l1", Status: entities.LeadStatusEstimated, EstimateID: "e9"}, nil)
		m.notifier.EXPECT().NotifyTransition(gomock.Any(), gomock.Any())

		updated, err := u.Approve(context.Background(), techleadActor, "l1", EstimateSeed{EstimateID: "e9"})
		require.NoError(t, err)
		require.Equal(t, "e9", updated.EstimateID)
	})

	t.Run("linking a missing estimate fails", func(t *testing.T) {
		u, m := newLeadUseCase(t)

		lead := entities.Lead{ID: "l1", Status: entities.LeadStatusPendingEstimation, CreatedBy: saleActor.ID}
		m.repo.EXPECT().GetByID(gomock.Any(), "l1").Return(lead, nil)
		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "ghost").Return(entities.Estimate{}, nil)

		_, err := u.Approve(context.Background(), techleadActor, "l1", EstimateSeed{EstimateID: "ghost"})
		require.ErrorIs(t, err, pkg.ErrNotFound)
	})
}
