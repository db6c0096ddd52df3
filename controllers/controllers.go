package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lotusgarden/pos-app/models"
	"github.com/lotusgarden/pos-app/services"
	"github.com/lotusgarden/pos-app/utils"
)

// orderRequest is the wire shape shared by the dine-in and takeaway upsert
// endpoints. Pointers distinguish absent fields from zero values.
type orderRequest struct {
	TableNumber  *int           `json:"tableNumber"`
	OrderID      uint           `json:"orderId"`
	CustomerName *string        `json:"customerName"`
	OrderType    string         `json:"orderType"`
	Items        []orderItemReq `json:"items"`
	TotalAmount  *float64       `json:"totalAmount"`
	OrderDate    *time.Time     `json:"orderDate"`
	EmployeeID   uint           `json:"employeeId"`
	EmployeeName string         `json:"employeeName"`
}

type orderItemReq struct {
	ItemName string  `json:"itemName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (r orderRequest) payload() services.OrderPayload {
	items := make([]models.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = models.OrderItem{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return services.OrderPayload{
		TableNumber:  r.TableNumber,
		OrderID:      r.OrderID,
		CustomerName: r.CustomerName,
		OrderType:    r.OrderType,
		Items:        items,
		TotalAmount:  r.TotalAmount,
		OrderDate:    r.OrderDate,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
	}
}

// respondEngineError maps engine errors onto HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrHistoryNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.ErrorLogger.Printf("engine error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
