package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lotusgarden/pos-app/models"
)

// TypeBreakdown aggregates paid orders of one order type.
type TypeBreakdown struct {
	Count int     `json:"count"`
	Sales float64 `json:"sales"`
}

// DailyReport summarizes the ledger entries paid within one UTC calendar day.
type DailyReport struct {
	Date       string                   `json:"date"`
	StartDate  time.Time                `json:"startDate"`
	EndDate    time.Time                `json:"endDate"`
	TotalSales float64                  `json:"totalSales"`
	TotalTips  float64                  `json:"totalTips"`
	OrderCount int                      `json:"orderCount"`
	Breakdown  map[string]TypeBreakdown `json:"breakdown"`
	Orders     []models.OrderHistory    `json:"orders"`
}

// Report aggregates history entries whose payment date falls within the UTC
// calendar day named by dateStr (YYYY-MM-DD). An empty dateStr means today.
// Money is summed with decimals so repeated float additions cannot drift.
func (s *OrderLifecycle) Report(dateStr string) (DailyReport, error) {
	var report DailyReport

	day := time.Now().UTC()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return report, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		day = parsed
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var entries []models.OrderHistory
	if err := s.DB.Preload("Items").
		Where("payment_date >= ? AND payment_date < ?", start, end).
		Order("payment_date DESC").
		Find(&entries).Error; err != nil {
		return report, err
	}

	sales := decimal.Zero
	tips := decimal.Zero
	breakdown := make(map[string]TypeBreakdown)
	for _, entry := range entries {
		sales = sales.Add(decimal.NewFromFloat(entry.TotalAmount))
		if entry.Tip != nil {
			tips = tips.Add(decimal.NewFromFloat(*entry.Tip))
		}

		orderType := entry.OrderType
		if orderType == "" {
			orderType = "Unknown"
		}
		agg := breakdown[orderType]
		agg.Count++
		agg.Sales, _ = decimal.NewFromFloat(agg.Sales).
			Add(decimal.NewFromFloat(entry.TotalAmount)).Round(2).Float64()
		breakdown[orderType] = agg
	}

	report.Date = start.Format("2006-01-02")
	report.StartDate = start
	report.EndDate = end.Add(-time.Millisecond)
	report.TotalSales, _ = sales.Round(2).Float64()
	report.TotalTips, _ = tips.Round(2).Float64()
	report.OrderCount = len(entries)
	report.Breakdown = breakdown
	report.Orders = entries
	return report, nil
}
