package routes

import (
	"net/http"
	"time"

	"meditravel/handlers"
	"meditravel/middleware"
	"meditravel/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignUpHandler)
		api.POST("/login", hb.SignInHandler)
		api.POST("/reset-password", hb.ResetPasswordHandler)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(hb.Sessions))
		protected.POST("/logout", hb.SignOutHandler)
		protected.PUT("/password", hb.UpdatePasswordHandler)
		protected.GET("/me", hb.MeHandler)
	}
}

// RegisterBookingRoutes registers booking endpoints. Reads and writes are
// gated on the booking permissions every authenticated patient holds.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.AccessGuard(hb.Sessions, models.Requirement{
			Permissions: []string{"bookings:read"},
		}))
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:bookingID", hb.GetBookingHandler)
		api.DELETE("/:bookingID", hb.CancelBookingHandler)
	}
}

// RegisterPaymentRoutes registers the payment wizard endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.RequireAuth(hb.Sessions))
		api.POST("/wizard", hb.OpenWizardHandler)
		api.GET("/wizard/:wizardID", hb.GetWizardHandler)
		api.POST("/wizard/:wizardID/method", hb.SelectMethodHandler)
		api.POST("/wizard/:wizardID/currency", hb.SelectCurrencyHandler)
		api.POST("/wizard/:wizardID/back", hb.BackHandler)
		api.POST("/wizard/:wizardID/submit", hb.SubmitHandler)
		api.DELETE("/wizard/:wizardID", hb.CloseWizardHandler)

		api.GET("/wizard/:wizardID/crypto", hb.PollCryptoHandler)
		api.POST("/wizard/:wizardID/crypto/confirm", hb.ConfirmCryptoHandler)
		api.POST("/wizard/:wizardID/crypto/regenerate", hb.RegenerateCryptoHandler)

		api.GET("/plans", hb.ListPlansHandler)
		api.POST("/plans/quote", hb.QuoteInstallmentHandler)
	}
}

// RegisterMatchingRoutes registers the recommendation endpoint.
func RegisterMatchingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/match")
	{
		api.Use(middleware.RequireAuth(hb.Sessions))
		api.GET("", hb.MatchHandler)
		api.GET("/candidates/:candidateID", hb.CandidateHandler)
	}
}

// RegisterProviderRoutes registers provider application endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/provider")
	{
		api.Use(middleware.RequireAuth(hb.Sessions))
		api.POST("/apply", hb.ApplyProviderHandler)
		api.POST("/applications/:applicationID/documents", hb.UploadCredentialHandler)
	}
}

// RegisterAdminRoutes registers review endpoints; admin role required.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AccessGuard(hb.Sessions, models.Requirement{
			Roles: []string{models.RoleAdmin},
		}))
		api.GET("/applications", hb.ListApplicationsHandler)
		api.POST("/applications/:applicationID/approve", hb.ApproveApplicationHandler)
		api.POST("/applications/:applicationID/reject", hb.RejectApplicationHandler)
		api.GET("/credentials/url", hb.CredentialURLHandler)
		api.GET("/users", hb.ListUsersHandler)
		api.DELETE("/users/:userID/provider-role", hb.RevokeProviderHandler)
	}
}

// RegisterNotificationRoutes registers in-app notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.RequireAuth(hb.Sessions))
		api.GET("", hb.ListNotificationsHandler)
		api.PUT("/:notificationID/read", hb.MarkNotificationReadHandler)
		api.POST("/device", hb.RegisterDeviceHandler)
	}
}

// RegisterDashboardRoutes registers the role-gated dashboard endpoint.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/dashboard")
	{
		api.Use(middleware.RequireAuth(hb.Sessions))
		api.GET("", hb.DashboardHandler)
	}
}

// RegisterI18nRoutes registers the translation catalog endpoint.
func RegisterI18nRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/i18n/:lang", hb.CatalogHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterAuthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterMatchingRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
	RegisterI18nRoutes(r, hb)
	RegisterHealthRoute(r)
}
