package models

import "time"

// OrderHistory is the permanent ledger entry created when an order is paid.
// Rows are never deleted; Tip is the only field edited afterwards.
type OrderHistory struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	OrderRef     string             `gorm:"type:varchar(36);not null;index" json:"orderRef"`
	TableNumber  *int               `json:"tableNumber"`
	CustomerName *string            `gorm:"type:varchar(255)" json:"customerName"`
	OrderType    string             `gorm:"type:varchar(50);not null" json:"orderType"`
	Items        []OrderHistoryItem `gorm:"foreignKey:HistoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	TotalAmount  float64            `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	OrderDate    time.Time          `gorm:"not null" json:"orderDate"`
	PaymentDate  time.Time          `gorm:"not null;index" json:"paymentDate"`
	Tip          *float64           `gorm:"type:decimal(10,2)" json:"tip"`
	EmployeeID   uint               `gorm:"not null" json:"employeeId"`
	EmployeeName string             `gorm:"type:varchar(255);not null" json:"employeeName"`
	CreatedAt    time.Time          `gorm:"not null" json:"-"`
	UpdatedAt    time.Time          `gorm:"not null" json:"-"`
}

// OrderHistoryItem is a snapshot of an OrderItem taken at payment time.
type OrderHistoryItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	HistoryID uint    `gorm:"not null;index" json:"-"`
	ItemName  string  `gorm:"type:varchar(100);not null" json:"itemName"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"type:decimal(10,2);not null" json:"price"`
}
