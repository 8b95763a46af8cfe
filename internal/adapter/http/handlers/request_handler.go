package handlers

import (
	"context"
	"net/http"

	"dealflow/internal/adapter/http/dto/request"
	"dealflow/internal/adapter/http/dto/response"
	"dealflow/internal/adapter/http/middleware"
	"dealflow/internal/domain/entities"
	"dealflow/internal/usecase"

	"github.com/gin-gonic/gin"
)

// RequestHandler handles HTTP requests for the request lifecycle, including
// both rejection branches and the contract conversion.
type RequestHandler struct {
	usecase usecase.IRequestUseCase
}

func NewRequestHandler(uc usecase.IRequestUseCase) *RequestHandler {
	return &RequestHandler{usecase: uc}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var payload request.CreateRequestRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	req, err := h.usecase.Create(c.Request.Context(), middleware.ActorFrom(c), payload.ToCommand())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromRequest(req))
}

// CreateEstimateRequest is the PM variant raised against a running project.
func (h *RequestHandler) CreateEstimateRequest(c *gin.Context) {
	var payload request.CreateEstimateRequestRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	req, err := h.usecase.CreateEstimateRequest(c.Request.Context(), middleware.ActorFrom(c), payload.ToCommand())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromRequest(req))
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	req, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(req))
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	requests, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromRequests(requests))
}

func (h *RequestHandler) SendToReview(c *gin.Context) {
	h.patchStatus(c, h.usecase.SendToReview)
}

func (h *RequestHandler) StartReview(c *gin.Context) {
	h.patchStatus(c, h.usecase.StartReview)
}

func (h *RequestHandler) Resubmit(c *gin.Context) {
	h.patchStatus(c, h.usecase.Resubmit)
}

func (h *RequestHandler) SendToSale(c *gin.Context) {
	h.patchStatus(c, h.usecase.SendToSale)
}

func (h *RequestHandler) Accept(c *gin.Context) {
	h.patchStatus(c, h.usecase.Accept)
}

func (h *RequestHandler) CompleteReview(c *gin.Context) {
	var payload request.CompleteReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	req, err := h.usecase.CompleteReview(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.ProjectOverview)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(req))
}

func (h *RequestHandler) Reject(c *gin.Context) {
	h.patchStatusWithReason(c, h.usecase.Reject)
}

func (h *RequestHandler) RequestChanges(c *gin.Context) {
	h.patchStatusWithReason(c, h.usecase.RequestChanges)
}

func (h *RequestHandler) RequestEdit(c *gin.Context) {
	h.patchStatusWithReason(c, h.usecase.RequestEdit)
}

func (h *RequestHandler) SaleReject(c *gin.Context) {
	h.patchStatusWithReason(c, h.usecase.SaleReject)
}

// Approve creates (or links) the estimate and moves the request to presale
// review in one operation.
func (h *RequestHandler) Approve(c *gin.Context) {
	var payload request.ApproveRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	req, err := h.usecase.Approve(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.ToSeed())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(req))
}

// ConvertToContract constructs the project; the response is the new project
// rather than the request.
func (h *RequestHandler) ConvertToContract(c *gin.Context) {
	project, err := h.usecase.ConvertToContract(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromProject(project))
}

func (h *RequestHandler) patchStatus(
	c *gin.Context,
	updater func(ctx context.Context, actor entities.Actor, id string) (entities.Request, error),
) {
	req, err := updater(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(req))
}

func (h *RequestHandler) patchStatusWithReason(
	c *gin.Context,
	updater func(ctx context.Context, actor entities.Actor, id, reason string) (entities.Request, error),
) {
	var payload request.RejectRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	req, err := updater(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.Reason)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromRequest(req))
}
