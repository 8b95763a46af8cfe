package usecase

import (
	"context"
	"fmt"
	"testing"

	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase/interfaces/mocks"
	"dealflow/pkg"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newEstimateUseCase(t *testing.T) (*EstimateUseCase, *mocks.MockIEstimateRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIEstimateRepository(ctrl)
	return NewEstimateUseCase(repo), repo
}

func storedEstimate() entities.Estimate {
	task := entities.NewTask("t1", "API")
	task.Estimates["backend"] = entities.HourRange{Min: 8, Max: 16}
	return entities.Estimate{
		ID:         "e1",
		Name:       "MVP",
		ClientName: "Acme",
		Sections:   []entities.Section{{ID: "s1", Title: "Core", Tasks: []entities.Task{task}}},
		Roles:      []entities.Role{{ID: "backend", Label: "Backend", HourlyRate: 45, HoursPerDay: 8}},
		QAPercent:  20,
		PMPercent:  15,
		QARate:     40,
		PMRate:     50,
		OwnerID:    techleadActor.ID,
	}
}

func TestEstimateUseCase_Create(t *testing.T) {
	t.Run("techlead creates an estimate", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				require.NotEmpty(t, e.ID)
				require.Equal(t, techleadActor.ID, e.OwnerID)
				require.NotNil(t, e.Sections)
				require.NotNil(t, e.Roles)
				return e, nil
			})

		_, err := u.Create(context.Background(), techleadActor, CreateEstimateCommand{Name: "MVP", ClientName: "Acme"})
		require.NoError(t, err)
	})

	t.Run("other roles are denied", func(t *testing.T) {
		u, _ := newEstimateUseCase(t)

		_, err := u.Create(context.Background(), saleActor, CreateEstimateCommand{Name: "MVP"})
		require.ErrorIs(t, err, pkg.ErrTransitionDenied)
	})

	t.Run("invalid content is rejected before persisting", func(t *testing.T) {
		u, _ := newEstimateUseCase(t)

		_, err := u.Create(context.Background(), techleadActor, CreateEstimateCommand{Name: "MVP", DiscountPercent: 150})
		require.ErrorIs(t, err, pkg.ErrValidation)
	})
}

func TestEstimateUseCase_GetByID_ComputesTotals(t *testing.T) {
	u, repo := newEstimateUseCase(t)

	repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)

	view, err := u.GetByID(context.Background(), "e1")
	require.NoError(t, err)
	require.Equal(t, 8.0, view.Totals.DevOpt)
	require.Equal(t, 16.0, view.Totals.DevPess)
	require.Equal(t, 12.0, view.Totals.TotalOptHours)
	require.Equal(t, 22.0, view.Totals.TotalPessHours)
}

func TestEstimateUseCase_Update_OwnerOnly(t *testing.T) {
	u, repo := newEstimateUseCase(t)

	repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)

	otherTechLead := entities.Actor{ID: "techlead-2", Role: entities.RoleTechLead}
	_, err := u.Update(context.Background(), otherTechLead, "e1", UpdateEstimateCommand{Name: "MVP"})
	require.ErrorIs(t, err, pkg.ErrTransitionDenied)
}

func TestEstimateUseCase_Update_AdminBypassesOwnership(t *testing.T) {
	u, repo := newEstimateUseCase(t)

	repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
			require.Equal(t, "Rescoped", e.Name)
			return e, nil
		})

	view, err := u.Update(context.Background(), adminActor, "e1", UpdateEstimateCommand{Name: "Rescoped", ClientName: "Acme"})
	require.NoError(t, err)
	require.Equal(t, "Rescoped", view.Estimate.Name)
}

func TestEstimateUseCase_Update_ConcurrentlyDeleted(t *testing.T) {
	u, repo := newEstimateUseCase(t)

	repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).
		Return(entities.Estimate{}, fmt.Errorf("%w: estimate e1", pkg.ErrNotFound))

	_, err := u.Update(context.Background(), techleadActor, "e1", UpdateEstimateCommand{Name: "MVP", ClientName: "Acme"})
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestEstimateUseCase_RoleTable(t *testing.T) {
	t.Run("add role", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				require.Len(t, e.Roles, 2)
				return e, nil
			})

		_, err := u.AddRole(context.Background(), techleadActor, "e1", entities.Role{ID: "mobile", Label: "Mobile", HourlyRate: 55, HoursPerDay: 6})
		require.NoError(t, err)
	})

	t.Run("duplicate role id", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)

		_, err := u.AddRole(context.Background(), techleadActor, "e1", entities.Role{ID: "backend"})
		require.ErrorIs(t, err, pkg.ErrValidation)
	})

	t.Run("update unknown role", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)

		_, err := u.UpdateRole(context.Background(), techleadActor, "e1", entities.Role{ID: "ghost"})
		require.ErrorIs(t, err, pkg.ErrNotFound)
	})

	t.Run("remove role", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				require.Empty(t, e.Roles)
				return e, nil
			})

		_, err := u.RemoveRole(context.Background(), techleadActor, "e1", "backend")
		require.NoError(t, err)
	})
}

func TestEstimateUseCase_Share(t *testing.T) {
	t.Run("issues a token", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				require.NotEmpty(t, e.ShareUUID)
				return e, nil
			})

		shared, err := u.Share(context.Background(), techleadActor, "e1")
		require.NoError(t, err)
		require.NotEmpty(t, shared.ShareUUID)
	})

	t.Run("regenerating replaces the token", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		withToken := storedEstimate()
		withToken.ShareUUID = "old-token"
		repo.EXPECT().GetByID(gomock.Any(), "e1").Return(withToken, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				require.NotEqual(t, "old-token", e.ShareUUID)
				return e, nil
			})

		_, err := u.Share(context.Background(), techleadActor, "e1")
		require.NoError(t, err)
	})
}

func TestEstimateUseCase_ResolveShare(t *testing.T) {
	t.Run("resolves to the view", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		withToken := storedEstimate()
		withToken.ShareUUID = "tok-1"
		repo.EXPECT().GetByShareUUID(gomock.Any(), "tok-1").Return(withToken, nil)

		view, err := u.ResolveShare(context.Background(), "tok-1")
		require.NoError(t, err)
		require.Equal(t, "e1", view.Estimate.ID)
		require.Equal(t, 22.0, view.Totals.TotalPessHours)
	})

	t.Run("unknown token", func(t *testing.T) {
		u, repo := newEstimateUseCase(t)

		repo.EXPECT().GetByShareUUID(gomock.Any(), "ghost").Return(entities.Estimate{}, nil)

		_, err := u.ResolveShare(context.Background(), "ghost")
		require.ErrorIs(t, err, pkg.ErrNotFound)
	})

	t.Run("blank token", func(t *testing.T) {
		u, _ := newEstimateUseCase(t)

		_, err := u.ResolveShare(context.Background(), "  ")
		require.ErrorIs(t, err, ErrInvalidShareToken)
	})
}

func TestEstimateUseCase_Delete(t *testing.T) {
	u, repo := newEstimateUseCase(t)

	repo.EXPECT().GetByID(gomock.Any(), "e1").Return(storedEstimate(), nil)
	repo.EXPECT().Delete(gomock.Any(), "e1").Return(nil)

	require.NoError(t, u.Delete(context.Background(), techleadActor, "e1"))
}
