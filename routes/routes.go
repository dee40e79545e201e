package routes

import (
	"database/sql"

	"github.com/oficinaplus/workshop-api/handlers"
	"github.com/oficinaplus/workshop-api/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/logout", authHandler.Logout)
}

// SetupPublicShareRoutes sets up the anonymous O.S. approval routes.
func SetupPublicShareRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	orderService := services.NewOrderService(db)
	notificationService := services.NewNotificationService(db)
	shareService := services.NewShareService(orderService, notificationService)

	h := handlers.NewShareHandler(db, shareService, orderService, ws)

	rg.GET("/os/:token", h.PublicGetOrder)
	rg.POST("/os/:token/decision", h.PublicDecision)
}

// SetupWorkshopRoutes sets up protected workshop and membership routes.
func SetupWorkshopRoutes(rg *gin.RouterGroup, db *sql.DB) {
	workshopHandler := &handlers.WorkshopHandler{DB: db}

	rg.GET("/workshops", workshopHandler.GetWorkshops)
	rg.POST("/workshops", workshopHandler.CreateWorkshop)
	rg.GET("/workshops/:id", workshopHandler.GetWorkshop)

	rg.POST("/workshops/:id/invite", workshopHandler.InviteMember)
	rg.GET("/workshops/:id/invitations", workshopHandler.GetInvitations)
	rg.DELETE("/workshops/:id/invitations/:invitation_id", workshopHandler.CancelInvitation)
	rg.DELETE("/workshops/:id/members/:member_id", workshopHandler.RemoveMember)
	rg.POST("/invitations/accept", workshopHandler.AcceptInvitation)
}

// SetupClientRoutes sets up the workshop CRM routes.
func SetupClientRoutes(rg *gin.RouterGroup, db *sql.DB) {
	clientHandler := &handlers.ClientHandler{DB: db}

	rg.GET("/workshops/:id/clients", clientHandler.GetClients)
	rg.POST("/workshops/:id/clients", clientHandler.CreateClient)
	rg.GET("/workshops/:id/clients/:client_id", clientHandler.GetClient)
	rg.PUT("/workshops/:id/clients/:client_id", clientHandler.UpdateClient)
	rg.DELETE("/workshops/:id/clients/:client_id", clientHandler.DeleteClient)
	rg.POST("/workshops/:id/clients/:client_id/vehicles", clientHandler.AddVehicle)
}

// SetupOrderRoutes sets up service order and share link routes.
func SetupOrderRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	orderService := services.NewOrderService(db)
	notificationService := services.NewNotificationService(db)
	shareService := services.NewShareService(orderService, notificationService)

	orderHandler := handlers.NewOrderHandler(db, orderService, ws)
	shareHandler := handlers.NewShareHandler(db, shareService, orderService, ws)

	rg.GET("/workshops/:id/orders", orderHandler.GetOrders)
	rg.POST("/workshops/:id/orders", orderHandler.CreateOrder)
	rg.GET("/workshops/:id/orders/:order_id", orderHandler.GetOrder)
	rg.PUT("/workshops/:id/orders/:order_id/status", orderHandler.UpdateOrderStatus)
	rg.DELETE("/workshops/:id/orders/:order_id", orderHandler.DeleteOrder)
	rg.GET("/workshops/:id/activity", orderHandler.GetActivityLog)

	rg.POST("/workshops/:id/orders/:order_id/share", shareHandler.CreateShareLink)
	rg.GET("/workshops/:id/orders/:order_id/shares", shareHandler.GetShareLinks)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/pin", userHandler.SetPIN)
	rg.POST("/user/pin/verify", userHandler.VerifyPIN)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupNotificationRoutes sets up the workshop notification routes.
func SetupNotificationRoutes(rg *gin.RouterGroup, db *sql.DB) {
	notificationService := services.NewNotificationService(db)
	h := handlers.NewNotificationHandler(db, notificationService)

	rg.GET("/workshops/:id/notifications", h.GetNotifications)
	rg.PUT("/workshops/:id/notifications/:notification_id/read", h.MarkRead)
	rg.POST("/workshops/:id/notifications/read-all", h.MarkAllRead)
}
