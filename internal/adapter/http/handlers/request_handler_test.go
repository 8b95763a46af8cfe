package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"dealflow/internal/adapter/http/handlers/mocks"
	"dealflow/internal/adapter/http/middleware"
	"dealflow/internal/domain/entities"
	"dealflow/pkg"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRequestRouter(uc *mocks.MockIRequestUseCase) *gin.Engine {
	h := NewRequestHandler(uc)
	r := gin.New()
	requests := r.Group("/v1/requests", middleware.RequireActor())
	requests.POST("", h.CreateRequest)
	requests.POST("/estimate-request", h.CreateEstimateRequest)
	requests.PATCH("/:id/reject", h.Reject)
	requests.PATCH("/:id/accept", h.Accept)
	requests.PATCH("/:id/approve", h.Approve)
	requests.POST("/:id/convert", h.ConvertToContract)
	return r
}

func TestRequestHandler_CreateRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIRequestUseCase(ctrl)
	router := newRequestRouter(uc)

	uc.EXPECT().Create(gomock.Any(), testSale, gomock.Any()).
		Return(entities.Request{ID: "r1", ClientName: "Acme", Status: entities.RequestStatusNew}, nil)

	w := doJSON(router, http.MethodPost, "/v1/requests", gin.H{"client_name": "Acme", "lead_id": "l1"}, &testSale)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRequestHandler_CreateEstimateRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIRequestUseCase(ctrl)
	router := newRequestRouter(uc)

	pm := entities.Actor{ID: "pm-1", Role: entities.RolePM}
	uc.EXPECT().CreateEstimateRequest(gomock.Any(), pm, gomock.Any()).
		Return(entities.Request{ID: "r2", ProjectID: "p1", Status: entities.RequestStatusNew}, nil)

	body := gin.H{"project_id": "p1", "scope_description": "phase two"}
	w := doJSON(router, http.MethodPost, "/v1/requests/estimate-request", body, &pm)
	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "p1", got["project_id"])
}

func TestRequestHandler_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIRequestUseCase(ctrl)
	router := newRequestRouter(uc)

	presale := entities.Actor{ID: "presale-1", Role: entities.RolePreSale}
	uc.EXPECT().Reject(gomock.Any(), presale, "r1", "budget").
		Return(entities.Request{ID: "r1", Status: entities.RequestStatusRejected, RejectionReason: "budget"}, nil)

	w := doJSON(router, http.MethodPatch, "/v1/requests/r1/reject", gin.H{"reason": "budget"}, &presale)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequestHandler_Accept_Denied(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIRequestUseCase(ctrl)
	router := newRequestRouter(uc)

	presale := entities.Actor{ID: "presale-1", Role: entities.RolePreSale}
	uc.EXPECT().Accept(gomock.Any(), presale, "r1").
		Return(entities.Request{}, fmt.Errorf("%w: role presale may not accept a request", pkg.ErrTransitionDenied))

	w := doJSON(router, http.MethodPatch, "/v1/requests/r1/accept", nil, &presale)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "TRANSITION_DENIED", errorCode(t, w))
}

func TestRequestHandler_ConvertToContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIRequestUseCase(ctrl)
	router := newRequestRouter(uc)

	uc.EXPECT().ConvertToContract(gomock.Any(), testSale, "r1").
		Return(entities.Project{ID: "p1", Name: "Acme Portal", RequestID: "r1", Status: entities.ProjectStatusNew}, nil)

	w := doJSON(router, http.MethodPost, "/v1/requests/r1/convert", nil, &testSale)
	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "p1", got["id"])
	require.Equal(t, "r1", got["request_id"])
}

func TestRequestHandler_ConvertToContract_Conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIRequestUseCase(ctrl)
	router := newRequestRouter(uc)

	uc.EXPECT().ConvertToContract(gomock.Any(), testSale, "r1").
		Return(entities.Project{}, fmt.Errorf("%w: request r1 changed", pkg.ErrConflict))

	w := doJSON(router, http.MethodPost, "/v1/requests/r1/convert", nil, &testSale)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "CONFLICT", errorCode(t, w))
}
