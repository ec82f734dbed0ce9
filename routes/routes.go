package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-food-api/config"
	"campus-food-api/handlers"
	"campus-food-api/middleware"
	"campus-food-api/models"
	"campus-food-api/services"
)

// SetupRoutes wires services, handlers and role-scoped route groups. The
// role set on each group is a fixed enumeration, never computed.
func SetupRoutes(r *gin.Engine, cfg *config.Config, db *gorm.DB) {
	secret := cfg.SigningKey()

	orders := services.NewOrderService(db)
	catalog := services.NewCatalogService(db)
	auth := services.NewAuthService(db, secret)
	google := services.NewGoogleAuthService(db, secret, services.NewGoogleVerifier(cfg.GoogleClientID))

	authHandler := handlers.NewAuthHandler(auth, google)
	studentHandler := handlers.NewStudentHandler(orders)
	vendorHandler := handlers.NewVendorHandler(orders)
	deliveryHandler := handlers.NewDeliveryHandler(orders)
	adminHandler := handlers.NewAdminHandler(catalog, auth, orders)
	publicHandler := handlers.NewPublicHandler(catalog)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/google", authHandler.GoogleLogin)

		// Catalog browsing (no auth needed)
		public.GET("/colleges", publicHandler.ListColleges)
		public.GET("/canteens", publicHandler.ListCanteens)
		public.GET("/canteens/:id", publicHandler.GetCanteen)
		public.GET("/canteens/:id/menu", publicHandler.GetMenu)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", publicHandler.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired(secret))
	{
		authed.GET("/profile", authHandler.GetProfile)
	}

	// ── Student routes ─────────────────────────────────────────────
	student := r.Group("/api/student")
	student.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleStudent))
	{
		student.POST("/orders", studentHandler.PlaceOrder)
		student.GET("/orders", studentHandler.GetMyOrders)
		student.GET("/orders/:id", studentHandler.GetOrderDetail)
	}

	// ── Vendor routes ──────────────────────────────────────────────
	vendor := r.Group("/api/vendor")
	vendor.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleVendor))
	{
		vendor.GET("/orders", vendorHandler.GetPlacedOrders)
		vendor.PATCH("/orders/:id/accept", vendorHandler.AcceptOrder)
	}

	// ── Delivery routes ────────────────────────────────────────────
	delivery := r.Group("/api/delivery")
	delivery.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleDelivery))
	{
		delivery.GET("/orders", deliveryHandler.GetAcceptedOrders)
		delivery.PATCH("/orders/:id/deliver", deliveryHandler.DeliverOrder)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(secret), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/colleges", adminHandler.AddCollege)
		admin.PATCH("/colleges/:id", adminHandler.UpdateCollege)
		admin.POST("/canteens", adminHandler.AddCanteen)
		admin.POST("/canteens/vendor", adminHandler.AssignVendor)
		admin.POST("/menu", adminHandler.AddMenuItem)
		admin.PATCH("/users/role", adminHandler.ChangeUserRole)
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/orders", adminHandler.ListOrders)
	}
}
