package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/controllers"
)

func setupReportRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	r.GET("/report", controllers.NewReportController(db).GetDailyReport)
	return r
}

func TestGetDailyReport(t *testing.T) {
	db := setupTestDB(t)
	r := setupReportRouter(db)

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	first := seedHistory(t, db, day.Add(10*time.Hour))
	tip := 3.00
	db.Model(&first).Update("tip", tip)
	seedHistory(t, db, day.Add(20*time.Hour))
	// Paid the next day, so excluded from the window.
	seedHistory(t, db, day.Add(25*time.Hour))

	w := perform(t, r, "GET", "/report?date=2026-08-28", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "Daily sales report", response["message"])

	report := response["data"].(map[string]interface{})
	assert.Equal(t, "2026-08-28", report["date"])
	assert.EqualValues(t, 2, report["orderCount"])
	assert.InDelta(t, 28.54, report["totalSales"].(float64), 0.001)
	assert.InDelta(t, 3.00, report["totalTips"].(float64), 0.001)

	breakdown := report["breakdown"].(map[string]interface{})
	dineIn := breakdown["Dine-in Table 2"].(map[string]interface{})
	assert.EqualValues(t, 2, dineIn["count"])
	assert.InDelta(t, 28.54, dineIn["sales"].(float64), 0.001)

	orders := report["orders"].([]interface{})
	assert.Len(t, orders, 2)
}

func TestGetDailyReportEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	r := setupReportRouter(db)

	w := perform(t, r, "GET", "/report?date=2026-01-01", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	report := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 0, report["orderCount"])
	assert.EqualValues(t, 0, report["totalSales"])
}

func TestGetDailyReportBadDate(t *testing.T) {
	db := setupTestDB(t)
	r := setupReportRouter(db)

	w := perform(t, r, "GET", "/report?date=28-08-2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rows seeded on another day do not leak into the default (today) window.
	seedHistory(t, db, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	w = perform(t, r, "GET", "/report", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	report := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), report["date"])
}
