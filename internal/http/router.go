package api

import (
	"log"
	stdhttp "net/http"

	intconfig "tourbackend/internal/config"
	h "tourbackend/internal/http/handlers"
	"tourbackend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env, handlers *h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if env.MetricsEnabled {
		m := middleware.NewHTTPMetrics("tourbackend")
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	auth := middleware.Auth([]byte(env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/db-check", handlers.DBCheck)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/logout", handlers.Logout)
		authGroup.GET("/me", auth, handlers.Me)

		// Tours (public catalogue)
		tours := api.Group("/tours")
		tours.GET("", handlers.ListTours)
		tours.GET("/:id", handlers.GetTour)

		// Bookings
		bookings := api.Group("/bookings", auth)
		bookings.POST("", handlers.CreateBooking)
		bookings.GET("", handlers.ListBookings)
		bookings.GET("/:id", handlers.GetBooking)
		bookings.PUT("/:id/status", handlers.UpdateBookingStatus)
		bookings.POST("/:id/cancel", handlers.CancelBooking)
		bookings.GET("/:id/invoice", handlers.GetBookingInvoicePDF)

		// Tour lifecycle (strict start/end)
		tour := api.Group("/tour", auth)
		tour.POST("/start", handlers.StartTour)
		tour.POST("/end", handlers.EndTour)

		// Payments
		payments := api.Group("/payments")
		payments.POST("/webhook", handlers.PaymentWebhook) // server-to-server, signature-checked
		payments.POST("", auth, handlers.CreatePayment)
		payments.POST("/refund-request", auth, handlers.RequestRefund)
		payments.POST("/refund-approve", auth, handlers.ApproveRefund)
		payments.GET("/booking/:bookingId", auth, handlers.GetBookingPayment)

		// Staff management
		employee := api.Group("/employee", auth)
		employee.POST("/assign-tourguide", handlers.AssignTourGuide)
		staff := api.Group("/staff", auth)
		staff.DELETE("/:id", handlers.DeleteStaff)

		// Location tracking
		location := api.Group("/location", auth)
		location.POST("/update", handlers.UpdateLocation)
		location.GET("/track/:bookingId", handlers.TrackTourGuide)
		location.GET("/history/:bookingId", handlers.LocationHistory)
	}

	return r
}
