package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/events"
	"github.com/lotusgarden/pos-app/services"
	"github.com/lotusgarden/pos-app/utils"
)

type PayController struct {
	DB     *gorm.DB
	Engine *services.OrderLifecycle
}

func NewPayController(db *gorm.DB) *PayController {
	return &PayController{DB: db, Engine: services.NewOrderLifecycle(db)}
}

// PayOrder finalizes an order: the active order is snapshotted into the
// history ledger, deleted, and the table (dine-in only) released. Exactly one
// of tableNumber and orderId must be supplied.
func (pc *PayController) PayOrder(c *gin.Context) {
	var body struct {
		TableNumber *int `json:"tableNumber"`
		OrderID     uint `json:"orderId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := pc.Engine.Pay(body.TableNumber, body.OrderID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.BroadcastOrderPaid(result.History, result.TableStatus)
	if result.History.TableNumber != nil {
		utils.InfoLogger.Printf("Order for table %d paid and moved to history", *result.History.TableNumber)
	} else {
		utils.InfoLogger.Printf("Takeaway order %s paid and moved to history", result.History.OrderRef)
	}

	utils.RespondJSON(c, http.StatusOK, "Order paid successfully", gin.H{
		"orderHistory": result.History,
		"tableStatus":  result.TableStatus,
	})
}
