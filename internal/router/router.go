package router

import (
	"appointment-booking/internal/config"
	"appointment-booking/internal/handler"
	"appointment-booking/internal/middleware"
	"appointment-booking/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the Gin engine and the route table.
func Setup(cfg *config.Config, db *gorm.DB, users *store.UserStore, appointments *store.AppointmentStore) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// every route runs with a session; the login challenge needs one
	// before any credential exists
	r.Use(middleware.Session(cfg.Session.Secret, cfg.Session.ExpireHours, db))

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(users, db)
	api.GET("/auth/challenge", authHandler.Challenge)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/catalog", handler.Catalog)

	// routes behind the login guard
	protected := api.Group("")
	protected.Use(
		middleware.RequireLogin(),
		middleware.Audit(db),
	)

	protected.GET("/me", authHandler.Me)
	protected.POST("/auth/logout", authHandler.Logout)

	bookingHandler := handler.NewBookingHandler(appointments)
	protected.POST("/appointments", bookingHandler.Book)
	protected.GET("/appointments", bookingHandler.List)

	return r
}
