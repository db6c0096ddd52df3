package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/controllers"
	"github.com/lotusgarden/pos-app/events"
	"github.com/lotusgarden/pos-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	takeawayCtrl := controllers.NewTakeawayController(db)
	payCtrl := controllers.NewPayController(db)
	historyCtrl := controllers.NewHistoryController(db)
	reportCtrl := controllers.NewReportController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Login/register sit behind a stricter limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Terminal-facing order workflow.
	r.GET("/tables", tableCtrl.GetTables)
	r.POST("/tables", tableCtrl.UpsertOrder)
	r.PUT("/tables", tableCtrl.UpdateTableStatus)

	r.GET("/takeaway", takeawayCtrl.GetOrders)
	r.POST("/takeaway", takeawayCtrl.UpsertOrder)

	r.POST("/pay", payCtrl.PayOrder)

	// Live table/order events for the floor plan views.
	r.GET("/ws", events.Handler)

	// Reporting endpoints require a logged-in employee.
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/history", historyCtrl.GetOrderHistory)
		auth.PATCH("/history/:history_id/tip", historyCtrl.UpdateTip)
		auth.GET("/report", reportCtrl.GetDailyReport)
	}

	return r
}
