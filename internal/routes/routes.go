package routes

import (
	"net/http"
	"os"

	"github.com/ayoubkr/maalem-market/internal/handlers"
	"github.com/ayoubkr/maalem-market/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the Next.js frontend to talk to us during local dev.
// FRONTEND_ORIGIN overrides the allowed origin in other environments.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("FRONTEND_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())
	router.Static("/uploads", "./uploads")

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Uploads ---
		v1.POST("/upload", h.UploadItemPhoto)

		// --- User Routes ---
		users := v1.Group("/users")
		{
			users.GET("/maalem", h.GetMaalems)
			users.GET("/maalem/:id", h.GetMaalemByID)
			users.GET("/maalem/login/:phoneNumber", h.GetMaalemByPhone)
			users.POST("/maalem", h.CreateMaalem)
			users.PUT("/maalem/:id", h.UpdateMaalem)
			users.DELETE("/maalem/:id", h.DeleteMaalem)

			users.GET("/client", h.GetClients)
			users.GET("/client/:id", h.GetClientByID)
			users.GET("/client/login/:phoneNumber", h.GetClientByPhone)
			users.POST("/client", h.CreateClient)
			users.PUT("/client/:id", h.UpdateClient)
			users.DELETE("/client/:id", h.DeleteClient)

			users.POST("/admin/login", h.AdminLogin)
		}

		// --- Inventory Routes ---
		inventory := v1.Group("/inventory")
		{
			inventory.GET("/item", h.GetItems)
			inventory.GET("/item/:id", h.GetItemByID)
			inventory.POST("/item", h.CreateItem)
			inventory.PUT("/item", h.UpdateItem)
			inventory.DELETE("/item/:id", h.DeleteItem)

			inventory.GET("/maalem/items/:maalem_id", h.GetItemsByMaalem)
			inventory.POST("/maalem/items/:maalem_id", h.CreateItemByMaalem)
			inventory.PUT("/maalem/items/:maalem_id", h.UpdateItemByMaalem)
			inventory.DELETE("/maalem/items/:maalem_id", h.DeleteItemByMaalem)

			inventory.POST("/item/like/:client_id", h.LikeItem)
			inventory.POST("/item/dislike/:client_id", h.DislikeItem)
			inventory.POST("/item/comment/:client_id", h.CommentToItem)
			inventory.GET("/item/like-status/:client_id/:item_id", h.LikeStatus)
			inventory.GET("/item/likes/:item_id", h.GetLikesForItem)
			inventory.GET("/item/comments/:item_id", h.GetCommentsForItem)
		}

		// --- Sales Routes ---
		salesGroup := v1.Group("/sales")
		{
			salesGroup.GET("/offers", h.GetOffers)
			salesGroup.GET("/offers/:id", h.GetOfferByID)
			salesGroup.GET("/offers/client/:client_id", h.GetOffersByClient)
			salesGroup.POST("/offers/make-offer", h.MakeOffer)
			salesGroup.DELETE("/offers/:id", h.DeleteOffer)

			salesGroup.GET("/orders", h.GetOrders)
			salesGroup.GET("/orders/:id", h.GetOrderByID)
			salesGroup.PATCH("/orders/:id", h.UpdateOrderStatus)
		}

		// --- Notification Routes ---
		notify := v1.Group("/notify")
		{
			notify.GET("/notifications", h.GetNotifications)
			notify.POST("/notifications", h.CreateNotification)
			notify.GET("/notifications/:id", h.GetNotificationByID)
			notify.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)
			notify.DELETE("/notifications/:id", h.DeleteNotification)

			notify.GET("/client-notifications/:client_id", h.GetClientNotifications)
			notify.GET("/maalem-notifications/:maalem_id", h.GetMaalemNotifications)
			notify.GET("/unread-notifications/client/:client_id", h.GetClientUnreadCount)
			notify.GET("/unread-notifications/maalem/:maalem_id", h.GetMaalemUnreadCount)
		}

		// --- Admin-Only Routes ---
		// Offer decisions and the conversion transaction belong to the admin
		// dashboard, behind JWT auth.
		admin := v1.Group("/")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/users/admin", h.GetAdmins)
			admin.POST("/sales/offers/:id/reject", h.RejectOffer)
			admin.POST("/sales/orders/convert", h.ConvertOfferToOrder)
			admin.POST("/admin/analysis", h.AskAnalysis)
		}
	}

	return router
}
