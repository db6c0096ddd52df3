package main

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lotusgarden/pos-app/config"
	"github.com/lotusgarden/pos-app/middlewares"
	"github.com/lotusgarden/pos-app/models"
	"github.com/lotusgarden/pos-app/router"
	"github.com/lotusgarden/pos-app/utils"
	"gorm.io/gorm"
)

const defaultTableCount = 20

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedTables(db)

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderHistory{},
		&models.OrderHistoryItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedTables creates the fixed table registry on first boot. Tables are never
// deleted afterwards; only their status changes.
func seedTables(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		utils.ErrorLogger.Fatalf("Failed to count tables: %v", err)
	}
	if count > 0 {
		return
	}

	total := defaultTableCount
	if raw := os.Getenv("TABLE_COUNT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			total = n
		}
	}

	tables := make([]models.Table, total)
	for i := range tables {
		tables[i] = models.Table{
			TableNumber: i + 1,
			Status:      models.TableAvailable,
		}
	}
	if err := db.Create(&tables).Error; err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed tables: %v", err)
	}
	utils.InfoLogger.Printf("%d tables seeded successfully", total)
}
