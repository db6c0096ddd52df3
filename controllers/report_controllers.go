package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/services"
	"github.com/lotusgarden/pos-app/utils"
)

type ReportController struct {
	DB     *gorm.DB
	Engine *services.OrderLifecycle
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db, Engine: services.NewOrderLifecycle(db)}
}

// GetDailyReport aggregates the history ledger for one UTC calendar day
// (?date=YYYY-MM-DD, default today): total sales, total tips, order count and
// a per-order-type breakdown.
func (rc *ReportController) GetDailyReport(c *gin.Context) {
	report, err := rc.Engine.Report(c.Query("date"))
	if err != nil {
		respondEngineError(c, err)
		return
	}

	utils.InfoLogger.Printf("Report for %s: %s sales over %d orders",
		report.Date, utils.FormatUSD(report.TotalSales), report.OrderCount)
	utils.RespondJSON(c, http.StatusOK, "Daily sales report", report)
}
