package usecase

import (
	"context"
	"errors"
	"testing"

	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase/interfaces/mocks"
	"dealflow/pkg"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type projectUseCaseMocks struct {
	repo     *mocks.MockIProjectRepository
	gateway  *mocks.MockIPaymentGateway
	notifier *mocks.MockINotifier
}

func newProjectUseCase(t *testing.T) (*ProjectUseCase, projectUseCaseMocks) {
	ctrl := gomock.NewController(t)
	m := projectUseCaseMocks{
		repo:     mocks.NewMockIProjectRepository(ctrl),
		gateway:  mocks.NewMockIPaymentGateway(ctrl),
		notifier: mocks.NewMockINotifier(ctrl),
	}
	return NewProjectUseCase(m.repo, m.gateway, m.notifier), m
}

func TestProjectUseCase_Activate(t *testing.T) {
	u, m := newProjectUseCase(t)

	project := entities.Project{ID: "p1", Status: entities.ProjectStatusNew}
	m.repo.EXPECT().GetByID(gomock.Any(), "p1").Return(project, nil)
	m.repo.EXPECT().
		SaveTransition(gomock.Any(), "p1", entities.ProjectStatusNew, entities.ProjectStatusActive, gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, _, next entities.ProjectStatus, entry entities.ChangelogEntry) (entities.Project, error) {
			require.Equal(t, "activate", entry.Action)
			require.Equal(t, pmActor.ID, entry.User)
			return entities.Project{ID: id, Status: next}, nil
		})
	m.notifier.EXPECT().NotifyTransition(gomock.Any(), gomock.Any())

	updated, err := u.Activate(context.Background(), pmActor, "p1")
	require.NoError(t, err)
	require.Equal(t, entities.ProjectStatusActive, updated.Status)
}

func TestProjectUseCase_Transitions_RoleGated(t *testing.T) {
	u, m := newProjectUseCase(t)

	project := entities.Project{ID: "p1", Status: entities.ProjectStatusNew}
	m.repo.EXPECT().GetByID(gomock.Any(), "p1").Return(project, nil)

	_, err := u.Activate(context.Background(), saleActor, "p1")
	require.ErrorIs(t, err, pkg.ErrTransitionDenied)
}

func TestProjectUseCase_Finish_RequiresActive(t *testing.T) {
	u, m := newProjectUseCase(t)

	project := entities.Project{ID: "p1", Status: entities.ProjectStatusPaused}
	m.repo.EXPECT().GetByID(gomock.Any(), "p1").Return(project, nil)

	_, err := u.Finish(context.Background(), pmActor, "p1")
	require.ErrorIs(t, err, pkg.ErrTransitionDenied)
}

func TestProjectUseCase_CreateInvoice(t *testing.T) {
	t.Run("bills through the gateway and appends the invoice", func(t *testing.T) {
		u, m := newProjectUseCase(t)

		project := entities.Project{ID: "p1", Status: entities.ProjectStatusActive}
		m.repo.EXPECT().GetByID(gomock.Any(), "p1").Return(project, nil)
		m.gateway.EXPECT().
			CreateInvoicePayment(gomock.Any(), gomock.Any(), 1500.0, "milestone 1").
			Return("mp-123", "approved", nil)
		m.repo.EXPECT().AppendInvoice(gomock.Any(), "p1", gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, id string, inv entities.Invoice, entry entities.ChangelogEntry) (entities.Project, error) {
				require.Equal(t, 1500.0, inv.Amount)
				require.Equal(t, "mp-123", inv.ProviderPaymentID)
				require.Equal(t, entities.InvoiceStatusApproved, inv.Status)
				require.Equal(t, pmActor.ID, entry.User)
				project.Invoices = append(project.Invoices, inv)
				return project, nil
			})

		updated, err := u.CreateInvoice(context.Background(), pmActor, "p1", 1500, "milestone 1")
		require.NoError(t, err)
		require.Len(t, updated.Invoices, 1)
	})

	t.Run("amount must be positive", func(t *testing.T) {
		u, _ := newProjectUseCase(t)

		_, err := u.CreateInvoice(context.Background(), pmActor, "p1", 0, "x")
		require.ErrorIs(t, err, ErrInvalidInvoiceAmount)
	})

	t.Run("only pm or admin may invoice", func(t *testing.T) {
		u, _ := newProjectUseCase(t)

		_, err := u.CreateInvoice(context.Background(), saleActor, "p1", 100, "x")
		require.ErrorIs(t, err, pkg.ErrTransitionDenied)
	})

	t.Run("finished projects cannot be invoiced", func(t *testing.T) {
		u, m := newProjectUseCase(t)

		project := entities.Project{ID: "p1", Status: entities.ProjectStatusFinished}
		m.repo.EXPECT().GetByID(gomock.Any(), "p1").Return(project, nil)

		_, err := u.CreateInvoice(context.Background(), pmActor, "p1", 100, "x")
		require.ErrorIs(t, err, pkg.ErrValidation)
	})

	t.Run("no gateway configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockIProjectRepository(ctrl)
		notifier := mocks.NewMockINotifier(ctrl)
		u := NewProjectUseCase(repo, nil, notifier)

		_, err := u.CreateInvoice(context.Background(), pmActor, "p1", 100, "x")
		require.ErrorIs(t, err, ErrPaymentGatewayUnavailable)
	})

	t.Run("gateway failure writes nothing", func(t *testing.T) {
		u, m := newProjectUseCase(t)

		project := entities.Project{ID: "p1", Status: entities.ProjectStatusActive}
		m.repo.EXPECT().GetByID(gomock.Any(), "p1").Return(project, nil)
		m.gateway.EXPECT().
			CreateInvoicePayment(gomock.Any(), gomock.Any(), 100.0, "x").
			Return("", "", errors.New("gateway down"))

		_, err := u.CreateInvoice(context.Background(), pmActor, "p1", 100, "x")
		require.EqualError(t, err, "gateway down")
	})
}

func TestInvoiceStatusFromProvider(t *testing.T) {
	cases := map[string]entities.InvoiceStatus{
		"approved":   entities.InvoiceStatusApproved,
		"accredited": entities.InvoiceStatusApproved,
		"rejected":   entities.InvoiceStatusDenied,
		"cancelled":  entities.InvoiceStatusDenied,
		"denied":     entities.InvoiceStatusDenied,
		"in_process": entities.InvoiceStatusPending,
		"":           entities.InvoiceStatusPending,
	}
	for provider, want := range cases {
		require.Equal(t, want, invoiceStatusFromProvider(provider), "provider status %q", provider)
	}
}
