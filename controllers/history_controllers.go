package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/services"
	"github.com/lotusgarden/pos-app/utils"
)

type HistoryController struct {
	DB     *gorm.DB
	Engine *services.OrderLifecycle
}

func NewHistoryController(db *gorm.DB) *HistoryController {
	return &HistoryController{DB: db, Engine: services.NewOrderLifecycle(db)}
}

// GetOrderHistory lists every ledger entry, newest payment first.
func (hc *HistoryController) GetOrderHistory(c *gin.Context) {
	entries, err := hc.Engine.ListHistory()
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", entries)
}

// UpdateTip sets or clears the tip on a history entry. The tip key must be
// present in the body; null clears the tip, a number >= 0 sets it.
func (hc *HistoryController) UpdateTip(c *gin.Context) {
	historyID, err := strconv.ParseUint(c.Param("history_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid history id"))
		return
	}

	var body map[string]*float64
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tip, ok := body["tip"]
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("tip is required"))
		return
	}

	entry, err := hc.Engine.UpdateTip(uint(historyID), tip)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tip updated successfully", entry)
}
