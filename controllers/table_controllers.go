package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/events"
	"github.com/lotusgarden/pos-app/models"
	"github.com/lotusgarden/pos-app/services"
	"github.com/lotusgarden/pos-app/utils"
)

// TableController serves the dine-in side of the floor: the table registry
// and the active orders bound to tables.
type TableController struct {
	DB     *gorm.DB
	Engine *services.OrderLifecycle
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db, Engine: services.NewOrderLifecycle(db)}
}

// GetTables serves three views of the same endpoint:
//
//	GET /tables                -> every table with its status
//	GET /tables?tableNumber=N  -> the active order for table N, or 404
//	GET /tables?source=orders  -> every dine-in active order
func (tc *TableController) GetTables(c *gin.Context) {
	if raw := c.Query("tableNumber"); raw != "" {
		tableNumber, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("tableNumber must be a number"))
			return
		}
		order, err := tc.Engine.GetActiveOrderByTable(tableNumber)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Order for table", order)
		return
	}

	if c.Query("source") == "orders" {
		orders, err := tc.Engine.ListActiveOrders(models.OrderTypeDineInPrefix)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "List of dine-in orders", orders)
		return
	}

	tables, err := tc.Engine.ListTables()
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpsertOrder creates or replaces the active order for a table and forces the
// table to Occupied.
func (tc *TableController) UpsertOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, created, err := tc.Engine.UpsertDineIn(req.payload())
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	if order.TableNumber != nil {
		var table models.Table
		if err := tc.DB.Where("table_number = ?", *order.TableNumber).First(&table).Error; err == nil {
			events.BroadcastTableUpdate(table)
		}
	}

	if created {
		utils.InfoLogger.Printf("Order fired for table %d by %s", *order.TableNumber, order.EmployeeName)
		utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated successfully", order)
}

// UpdateTableStatus applies a table status transition. The response carries
// the actual resulting status, which may differ from the requested one.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	var body struct {
		TableNumber *int   `json:"tableNumber" binding:"required"`
		TableStatus string `json:"tableStatus" binding:"required"`
		ForceUpdate bool   `json:"forceUpdate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Engine.UpdateTableStatus(services.StatusRequest{
		TableNumber: *body.TableNumber,
		Status:      body.TableStatus,
		Force:       body.ForceUpdate,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d status changed to %s", table.TableNumber, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated successfully", table)
}
