package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"dealflow/internal/adapter/http/handlers/mocks"
	"dealflow/internal/adapter/http/middleware"
	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newProjectRouter(uc *mocks.MockIProjectUseCase) *gin.Engine {
	h := NewProjectHandler(uc)
	r := gin.New()
	projects := r.Group("/v1/projects", middleware.RequireActor())
	projects.GET("/:id", h.GetProject)
	projects.PATCH("/:id/activate", h.Activate)
	projects.PATCH("/:id/finish", h.Finish)
	projects.POST("/:id/invoices", h.CreateInvoice)
	return r
}

var testPM = entities.Actor{ID: "pm-1", Role: entities.RolePM}

func TestProjectHandler_Activate(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIProjectUseCase(ctrl)
	router := newProjectRouter(uc)

	uc.EXPECT().Activate(gomock.Any(), testPM, "p1").
		Return(entities.Project{ID: "p1", Status: entities.ProjectStatusActive}, nil)

	w := doJSON(router, http.MethodPatch, "/v1/projects/p1/activate", nil, &testPM)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "active", got["status"])
}

func TestProjectHandler_CreateInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIProjectUseCase(ctrl)
	router := newProjectRouter(uc)

	uc.EXPECT().CreateInvoice(gomock.Any(), testPM, "p1", 1500.0, "milestone 1").
		Return(entities.Project{
			ID:     "p1",
			Status: entities.ProjectStatusActive,
			Invoices: []entities.Invoice{
				{ID: "inv-1", Amount: 1500, Status: entities.InvoiceStatusApproved, ProviderPaymentID: "mp-123"},
			},
		}, nil)

	body := gin.H{"amount": 1500, "description": "milestone 1"}
	w := doJSON(router, http.MethodPost, "/v1/projects/p1/invoices", body, &testPM)
	require.Equal(t, http.StatusCreated, w.Code)

	var got struct {
		Invoices []map[string]any `json:"invoices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Invoices, 1)
	require.Equal(t, "mp-123", got.Invoices[0]["provider_payment_id"])
}

func TestProjectHandler_CreateInvoice_MissingAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newProjectRouter(mocks.NewMockIProjectUseCase(ctrl))

	w := doJSON(router, http.MethodPost, "/v1/projects/p1/invoices", gin.H{"description": "no amount"}, &testPM)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_PAYLOAD", errorCode(t, w))
}

func TestProjectHandler_CreateInvoice_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIProjectUseCase(ctrl)
	router := newProjectRouter(uc)

	uc.EXPECT().CreateInvoice(gomock.Any(), testPM, "p1", -10.0, "").
		Return(entities.Project{}, usecase.ErrInvalidInvoiceAmount)

	w := doJSON(router, http.MethodPost, "/v1/projects/p1/invoices", gin.H{"amount": -10}, &testPM)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_REQUEST", errorCode(t, w))
}

func TestProjectHandler_CreateInvoice_GatewayUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIProjectUseCase(ctrl)
	router := newProjectRouter(uc)

	uc.EXPECT().CreateInvoice(gomock.Any(), testPM, "p1", 100.0, "").
		Return(entities.Project{}, usecase.ErrPaymentGatewayUnavailable)

	w := doJSON(router, http.MethodPost, "/v1/projects/p1/invoices", gin.H{"amount": 100}, &testPM)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "PAYMENT_GATEWAY_UNAVAILABLE", errorCode(t, w))
}

func TestProjectHandler_GetProject(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIProjectUseCase(ctrl)
	router := newProjectRouter(uc)

	uc.EXPECT().GetByID(gomock.Any(), "p1").Return(entities.Project{
		ID:        "p1",
		Name:      "Acme Portal",
		Status:    entities.ProjectStatusActive,
		Changelog: []entities.ChangelogEntry{{Action: "activate", User: "pm-1"}},
	}, nil)

	w := doJSON(router, http.MethodGet, "/v1/projects/p1", nil, &testPM)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Changelog []map[string]any `json:"changelog"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Changelog, 1)
	require.Equal(t, "activate", got.Changelog[0]["action"])
}
