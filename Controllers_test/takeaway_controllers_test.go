package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/controllers"
)

func setupTakeawayRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	ctrl := controllers.NewTakeawayController(db)
	r.GET("/takeaway", ctrl.GetOrders)
	r.POST("/takeaway", ctrl.UpsertOrder)
	return r
}

func takeawayOrderBody(qty int) map[string]interface{} {
	subtotal := float64(qty) * 9.25
	return map[string]interface{}{
		"orderType":    "Takeaway - Walk-in",
		"customerName": "Bob",
		"items": []map[string]interface{}{
			{"itemName": "Pad Thai", "quantity": qty, "price": 9.25},
		},
		"totalAmount":  subtotal + subtotal*0.0975,
		"employeeId":   2,
		"employeeName": "Dana",
	}
}

func TestCreateTakeawayOrder(t *testing.T) {
	db := setupTestDB(t)
	r := setupTakeawayRouter(db)

	w := perform(t, r, "POST", "/takeaway", takeawayOrderBody(1))
	assert.Equal(t, http.StatusCreated, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "Order created successfully", response["message"])

	order := response["data"].(map[string]interface{})
	assert.Nil(t, order["tableNumber"])
	assert.Equal(t, "Takeaway - Walk-in", order["orderType"])
	assert.NotEmpty(t, order["orderRef"])
}

func TestUpdateTakeawayOrder(t *testing.T) {
	db := setupTestDB(t)
	r := setupTakeawayRouter(db)

	w := perform(t, r, "POST", "/takeaway", takeawayOrderBody(1))
	assert.Equal(t, http.StatusCreated, w.Code)
	created := decodeResponse(t, w)["data"].(map[string]interface{})
	orderID := uint(created["id"].(float64))

	body := takeawayOrderBody(3)
	body["orderId"] = orderID
	w = perform(t, r, "POST", "/takeaway", body)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "Order updated successfully", response["message"])

	items := response["data"].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].(map[string]interface{})["quantity"])
}

func TestTakeawayRequiresItems(t *testing.T) {
	db := setupTestDB(t)
	r := setupTakeawayRouter(db)

	body := takeawayOrderBody(1)
	body["items"] = []map[string]interface{}{}
	w := perform(t, r, "POST", "/takeaway", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTakeawayOrders(t *testing.T) {
	db := setupTestDB(t)
	r := setupTakeawayRouter(db)

	perform(t, r, "POST", "/takeaway", takeawayOrderBody(1))
	perform(t, r, "POST", "/takeaway", takeawayOrderBody(2))

	w := perform(t, r, "GET", "/takeaway", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestGetTakeawayOrderByID(t *testing.T) {
	db := setupTestDB(t)
	r := setupTakeawayRouter(db)

	w := perform(t, r, "POST", "/takeaway", takeawayOrderBody(1))
	created := decodeResponse(t, w)["data"].(map[string]interface{})
	orderID := uint(created["id"].(float64))

	w = perform(t, r, "GET", fmt.Sprintf("/takeaway?orderId=%d", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	order := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, orderID, order["id"])

	w = perform(t, r, "GET", "/takeaway?orderId=9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
