package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/controllers"
	"github.com/lotusgarden/pos-app/models"
)

func setupHistoryRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	ctrl := controllers.NewHistoryController(db)
	r.GET("/history", ctrl.GetOrderHistory)
	r.PATCH("/history/:history_id/tip", ctrl.UpdateTip)
	return r
}

func seedHistory(t *testing.T, db *gorm.DB, paidAt time.Time) models.OrderHistory {
	t.Helper()
	tableNumber := 2
	entry := models.OrderHistory{
		OrderRef:    fmt.Sprintf("ref-%d", paidAt.UnixNano()),
		TableNumber: &tableNumber,
		OrderType:   "Dine-in Table 2",
		Items: []models.OrderHistoryItem{
			{ItemName: "Spring Rolls", Quantity: 2, Price: 6.50},
		},
		TotalAmount:  14.27,
		OrderDate:    paidAt.Add(-30 * time.Minute),
		PaymentDate:  paidAt,
		EmployeeID:   1,
		EmployeeName: "Alice",
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}
	return entry
}

func TestGetOrderHistorySortedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	r := setupHistoryRouter(db)

	older := seedHistory(t, db, time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC))
	newer := seedHistory(t, db, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))

	w := perform(t, r, "GET", "/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)
	assert.EqualValues(t, newer.ID, data[0].(map[string]interface{})["id"])
	assert.EqualValues(t, older.ID, data[1].(map[string]interface{})["id"])
}

func TestUpdateTipSetAndClear(t *testing.T) {
	db := setupTestDB(t)
	r := setupHistoryRouter(db)

	entry := seedHistory(t, db, time.Now().UTC())
	url := fmt.Sprintf("/history/%d/tip", entry.ID)

	w := perform(t, r, "PATCH", url, map[string]interface{}{"tip": 5.00})
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "Tip updated successfully", response["message"])
	assert.EqualValues(t, 5.00, response["data"].(map[string]interface{})["tip"])

	// Explicit null clears the tip without touching anything else.
	w = perform(t, r, "PATCH", url, map[string]interface{}{"tip": nil})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeResponse(t, w)["data"].(map[string]interface{})["tip"])

	var stored models.OrderHistory
	db.First(&stored, entry.ID)
	assert.Nil(t, stored.Tip)
	assert.EqualValues(t, 14.27, stored.TotalAmount)
}

func TestUpdateTipValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupHistoryRouter(db)

	entry := seedHistory(t, db, time.Now().UTC())
	url := fmt.Sprintf("/history/%d/tip", entry.ID)

	// Absent tip key is not the same as null.
	w := perform(t, r, "PATCH", url, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Negative tips are rejected.
	w = perform(t, r, "PATCH", url, map[string]interface{}{"tip": -1.00})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown entry.
	w = perform(t, r, "PATCH", "/history/9999/tip", map[string]interface{}{"tip": 2.00})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Non-numeric id.
	w = perform(t, r, "PATCH", "/history/abc/tip", map[string]interface{}{"tip": 2.00})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
