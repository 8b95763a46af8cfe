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

// ProjectHandler handles HTTP requests for contracted projects.
type ProjectHandler struct {
	usecase usecase.IProjectUseCase
}

func NewProjectHandler(uc usecase.IProjectUseCase) *ProjectHandler {
	return &ProjectHandler{usecase: uc}
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromProject(project))
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromProjects(projects))
}

func (h *ProjectHandler) Activate(c *gin.Context) {
	h.patchStatus(c, h.usecase.Activate)
}

func (h *ProjectHandler) Pause(c *gin.Context) {
	h.patchStatus(c, h.usecase.Pause)
}

func (h *ProjectHandler) Resume(c *gin.Context) {
	h.patchStatus(c, h.usecase.Resume)
}

func (h *ProjectHandler) Finish(c *gin.Context) {
	h.patchStatus(c, h.usecase.Finish)
}

func (h *ProjectHandler) CreateInvoice(c *gin.Context) {
	var payload request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	project, err := h.usecase.CreateInvoice(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), payload.Amount, payload.Description)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromProject(project))
}

func (h *ProjectHandler) patchStatus(
	c *gin.Context,
	updater func(ctx context.Context, actor entities.Actor, id string) (entities.Project, error),
) {
	project, err := updater(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromProject(project))
}
