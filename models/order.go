package models

import (
	"strings"
	"time"
)

// Order type prefixes. Dine-in orders carry "Dine-in Table N", takeaway
// orders "Takeaway - <source>".
const (
	OrderTypeDineInPrefix   = "Dine-in"
	OrderTypeTakeawayPrefix = "Takeaway"
)

// Order is an active (fired but unpaid) order. At most one exists per table
// number at any time; takeaway orders have a nil TableNumber and are addressed
// by ID instead. Paying an order deletes it and creates an OrderHistory row.
type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	OrderRef     string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"orderRef"`
	TableNumber  *int        `gorm:"index" json:"tableNumber"`
	CustomerName *string     `gorm:"type:varchar(255)" json:"customerName"`
	OrderType    string      `gorm:"type:varchar(50);not null" json:"orderType"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	TotalAmount  float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"totalAmount"`
	OrderDate    time.Time   `gorm:"not null" json:"orderDate"`
	EmployeeID   uint        `gorm:"not null" json:"employeeId"`
	EmployeeName string      `gorm:"type:varchar(255);not null" json:"employeeName"`
	CreatedAt    time.Time   `gorm:"not null" json:"-"`
	UpdatedAt    time.Time   `gorm:"not null" json:"-"`
}

// IsDineIn reports whether the order belongs to a physical table.
func (o *Order) IsDineIn() bool {
	return strings.HasPrefix(strings.ToLower(o.OrderType), strings.ToLower(OrderTypeDineInPrefix))
}

type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"not null;index" json:"-"`
	ItemName string  `gorm:"type:varchar(100);not null" json:"itemName"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}
