package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/models"
	"github.com/lotusgarden/pos-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB migrates the full schema into an in-memory SQLite database and
// seeds a small table registry.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderHistory{},
		&models.OrderHistoryItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	for i := 1; i <= 5; i++ {
		db.Create(&models.Table{TableNumber: i, Status: models.TableAvailable})
	}
	return db
}

// perform runs a JSON request against the router and returns the recorder.
func perform(t *testing.T, r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the standard response envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return response
}

func dineInOrderBody(tableNumber int, qty int) map[string]interface{} {
	subtotal := float64(qty) * 6.50
	return map[string]interface{}{
		"tableNumber": tableNumber,
		"orderType":   fmt.Sprintf("Dine-in Table %d", tableNumber),
		"items": []map[string]interface{}{
			{"itemName": "Spring Rolls", "quantity": qty, "price": 6.50},
		},
		"totalAmount":  subtotal + subtotal*0.0975,
		"employeeId":   1,
		"employeeName": "Alice",
	}
}
