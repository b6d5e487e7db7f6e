package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rental/internal/handler"
	"rental/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler      *handler.UserHandler
	CarHandler       *handler.CarHandler
	BookingHandler   *handler.BookingHandler
	PaymentHandler   *handler.PaymentHandler
	QuoteHandler     *handler.QuoteHandler
	AssistantHandler *handler.AssistantHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Car routes.
		cars := v1.Group("/cars")
		{
			cars.POST("", deps.CarHandler.RegisterCar)
			cars.GET("", deps.CarHandler.GetAll)
			cars.GET("/:id", deps.CarHandler.GetCar)
			cars.POST("/:id/rate", deps.CarHandler.UpdateRate)
			cars.POST("/:id/unlist", deps.CarHandler.Unlist)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("", deps.BookingHandler.GetAll)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
			bookings.POST("/:id/complete", deps.BookingHandler.CompleteBooking)
			bookings.GET("/:id/receipt", deps.BookingHandler.GetReceipt)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.ConfirmPayment)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
		}

		// Pricing quote route.
		v1.POST("/quotes", deps.QuoteHandler.Quote)

		// Help assistant route, only when a provider is configured.
		if deps.AssistantHandler != nil {
			v1.POST("/assistant", deps.AssistantHandler.Chat)
		}
	}

	return router
}
