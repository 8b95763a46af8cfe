package routes

import (
	"os"
	"strconv"

	_ "dealflow/docs" // swag-generated swagger spec
	"dealflow/internal/adapter/http/handlers"
	"dealflow/internal/adapter/persistence/repository"
	"dealflow/internal/infrastructure/database"
	"dealflow/internal/infrastructure/notify"
	"dealflow/internal/infrastructure/payments"
	"dealflow/internal/usecase"
	"dealflow/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const defaultPort = 8080

// Run wires the application and starts the server.
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	port := defaultPort
	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil && v > 0 {
		port = v
	}
	if err := router.Run(":" + strconv.Itoa(port)); err != nil {
		log.Fatal().Err(err).Msg("failed to start the application")
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	leadRepo := repository.NewLeadDynamoRepository(ddb)
	requestRepo := repository.NewRequestDynamoRepository(ddb)
	projectRepo := repository.NewProjectDynamoRepository(ddb)
	estimateRepo := repository.NewEstimateDynamoRepository(ddb)

	notifier := notify.NewWebhookNotifierFromEnv()

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		log.Warn().Err(err).Msg("mercado pago gateway not configured; invoice creation will fail")
	} else {
		paymentGateway = mpGateway
	}

	leadUseCase := usecase.NewLeadUseCase(leadRepo, estimateRepo, notifier)
	requestUseCase := usecase.NewRequestUseCase(requestRepo, leadRepo, projectRepo, estimateRepo, notifier)
	projectUseCase := usecase.NewProjectUseCase(projectRepo, paymentGateway, notifier)
	estimateUseCase := usecase.NewEstimateUseCase(estimateRepo)

	leadHandler := handlers.NewLeadHandler(leadUseCase)
	requestHandler := handlers.NewRequestHandler(requestUseCase)
	projectHandler := handlers.NewProjectHandler(projectUseCase)
	estimateHandler := handlers.NewEstimateHandler(estimateUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addEngagementRoutes(v1, leadHandler, requestHandler, projectHandler, estimateHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error().Interface("panic", recovered).Msg("recovered from panic")
		c.AbortWithStatus(500)
	}))
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
