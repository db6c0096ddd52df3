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

// TakeawayController serves takeaway tickets. They carry no table, so there
// is never a status side effect.
type TakeawayController struct {
	DB     *gorm.DB
	Engine *services.OrderLifecycle
}

func NewTakeawayController(db *gorm.DB) *TakeawayController {
	return &TakeawayController{DB: db, Engine: services.NewOrderLifecycle(db)}
}

// GetOrders lists all takeaway orders, or returns a single one when the
// orderId query parameter is set.
func (tc *TakeawayController) GetOrders(c *gin.Context) {
	if raw := c.Query("orderId"); raw != "" {
		orderID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("orderId must be a number"))
			return
		}
		order, err := tc.Engine.GetActiveOrderByID(uint(orderID))
		if err != nil {
			respondEngineError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Takeaway order", order)
		return
	}

	orders, err := tc.Engine.ListActiveOrders(models.OrderTypeTakeawayPrefix)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of takeaway orders", orders)
}

// UpsertOrder creates a takeaway order, or replaces an existing one when the
// body carries an orderId.
func (tc *TakeawayController) UpsertOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, created, err := tc.Engine.UpsertTakeaway(req.payload())
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	if created {
		utils.InfoLogger.Printf("Takeaway order %d created by %s", order.ID, order.EmployeeName)
		utils.RespondJSON(c, http.StatusCreated, "Order created successfully", order)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated successfully", order)
}
