package handlers

import (
	"net/http"

	"dealflow/internal/adapter/http/dto/request"
	"dealflow/internal/adapter/http/dto/response"
	"dealflow/internal/adapter/http/middleware"
	"dealflow/internal/usecase"

	"github.com/gin-gonic/gin"
)

// EstimateHandler handles HTTP requests for estimates: content edits, rate
// table edits, and the public share-link flow.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var payload request.CreateEstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	estimate, err := h.usecase.Create(c.Request.Context(), middleware.ActorFrom(c), payload.ToCommand())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromEstimate(estimate))
}

// GetEstimate returns the estimate with totals computed on this read.
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	view, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromEstimateView(view))
}

func (h *EstimateHandler) UpdateEstimate(c *gin.Context) {
	var payload request.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	view, err := h.usecase.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.ToCommand())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromEstimateView(view))
}

func (h *EstimateHandler) AddRole(c *gin.Context) {
	var payload request.RoleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	estimate, err := h.usecase.AddRole(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.ToEntity())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func (h *EstimateHandler) UpdateRole(c *gin.Context) {
	var payload request.RoleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	role := payload.ToEntity()
	role.ID = c.Param("role_id")

	estimate, err := h.usecase.UpdateRole(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), role)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func (h *EstimateHandler) RemoveRole(c *gin.Context) {
	estimate, err := h.usecase.RemoveRole(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), c.Param("role_id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func (h *EstimateHandler) DeleteEstimate(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.Status(http.StatusNoContent)
}

// ShareEstimate issues (or rotates) the public share token.
func (h *EstimateHandler) ShareEstimate(c *gin.Context) {
	estimate, err := h.usecase.Share(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

// ResolveShare serves the read-only public snapshot. No actor required:
// possession of the token is the authorization.
func (h *EstimateHandler) ResolveShare(c *gin.Context) {
	view, err := h.usecase.ResolveShare(c.Request.Context(), c.Param("token"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromEstimateView(view))
}
