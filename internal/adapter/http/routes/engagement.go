package routes

import (
	"dealflow/internal/adapter/http/handlers"
	"dealflow/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathLeads     = "/leads"
	PathRequests  = "/requests"
	PathProjects  = "/projects"
	PathEstimates = "/estimates"
	PathShare     = "/share"
)

func addEngagementRoutes(
	rg *gin.RouterGroup,
	leadHandler *handlers.LeadHandler,
	requestHandler *handlers.RequestHandler,
	projectHandler *handlers.ProjectHandler,
	estimateHandler *handlers.EstimateHandler,
) {
	// Public link: resolving a share token needs no actor by design.
	rg.GET(PathShare+"/:token", estimateHandler.ResolveShare)

	authed := rg.Group("", middleware.RequireActor())

	leads := authed.Group(PathLeads)
	{
		leads.POST("", leadHandler.CreateLead)
		leads.GET("", leadHandler.ListLeads)
		leads.GET("/:id", leadHandler.GetLead)
		leads.PATCH("/:id/send-to-review", leadHandler.SendToReview)
		leads.PATCH("/:id/start-review", leadHandler.StartReview)
		leads.PATCH("/:id/complete-review", leadHandler.CompleteReview)
		leads.PATCH("/:id/approve", leadHandler.ApproveLead)
	}

	requests := authed.Group(PathRequests)
	{
		requests.POST("", requestHandler.CreateRequest)
		requests.POST("/estimate-request", requestHandler.CreateEstimateRequest)
		requests.GET("", requestHandler.ListRequests)
		requests.GET("/:id", requestHandler.GetRequest)
		requests.PATCH("/:id/send-to-review", requestHandler.SendToReview)
		requests.PATCH("/:id/start-review", requestHandler.StartReview)
		requests.PATCH("/:id/complete-review", requestHandler.CompleteReview)
		requests.PATCH("/:id/reject", requestHandler.Reject)
		requests.PATCH("/:id/resubmit", requestHandler.Resubmit)
		requests.PATCH("/:id/approve", requestHandler.Approve)
		requests.PATCH("/:id/send-to-sale", requestHandler.SendToSale)
		requests.PATCH("/:id/request-changes", requestHandler.RequestChanges)
		requests.PATCH("/:id/accept", requestHandler.Accept)
		requests.PATCH("/:id/request-edit", requestHandler.RequestEdit)
		requests.PATCH("/:id/sale-reject", requestHandler.SaleReject)
		requests.POST("/:id/convert", requestHandler.ConvertToContract)
	}

	projects := authed.Group(PathProjects)
	{
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:id", projectHandler.GetProject)
		projects.PATCH("/:id/activate", projectHandler.Activate)
		projects.PATCH("/:id/pause", projectHandler.Pause)
		projects.PATCH("/:id/resume", projectHandler.Resume)
		projects.PATCH("/:id/finish", projectHandler.Finish)
		projects.POST("/:id/invoices", projectHandler.CreateInvoice)
	}

	estimates := authed.Group(PathEstimates)
	{
		estimates.POST("", estimateHandler.CreateEstimate)
		estimates.GET("/:id", estimateHandler.GetEstimate)
		estimates.PUT("/:id", estimateHandler.UpdateEstimate)
		estimates.DELETE("/:id", estimateHandler.DeleteEstimate)
		estimates.POST("/:id/roles", estimateHandler.AddRole)
		estimates.PUT("/:id/roles/:role_id", estimateHandler.UpdateRole)
		estimates.DELETE("/:id/roles/:role_id", estimateHandler.RemoveRole)
		estimates.POST("/:id/share", estimateHandler.ShareEstimate)
	}
}
