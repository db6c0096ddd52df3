package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/models"
)

// OrderLifecycle owns every transition of the table/order state machine:
// table status updates, order upserts and the pay transaction that moves an
// active order into the history ledger.
type OrderLifecycle struct {
	DB *gorm.DB
}

func NewOrderLifecycle(db *gorm.DB) *OrderLifecycle {
	return &OrderLifecycle{DB: db}
}

// StatusRequest is a table status transition request. The engine applies the
// transition rules and returns the actual resulting status, which may differ
// from the requested one. Force bypasses the rules entirely (used by the
// force-release escape hatch when an operator backs out of an empty cart).
type StatusRequest struct {
	TableNumber int
	Status      string
	Force       bool
}

// OrderPayload carries an order create/update request into the engine.
// Items always replace the stored list wholesale, never merge into it.
type OrderPayload struct {
	TableNumber  *int
	OrderID      uint
	CustomerName *string
	OrderType    string
	Items        []models.OrderItem
	TotalAmount  *float64
	OrderDate    *time.Time
	EmployeeID   uint
	EmployeeName string
}

// PayResult is the outcome of a successful payment.
type PayResult struct {
	History     models.OrderHistory
	TableStatus string // empty for takeaway orders
}

// ListTables returns every table in the registry.
func (s *OrderLifecycle) ListTables() ([]models.Table, error) {
	var tables []models.Table
	if err := s.DB.Order("table_number").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// UpdateTableStatus applies a status transition request:
//
//   - Force set: the requested status is stored as-is.
//   - Requested Available or Pending (select-table): only an Available table
//     moves to Pending; Pending and Occupied tables are left unchanged.
//   - Requested Occupied (reconciliation-check): honored only when an active
//     order actually exists for the table, otherwise corrected to Available.
func (s *OrderLifecycle) UpdateTableStatus(req StatusRequest) (models.Table, error) {
	var table models.Table

	if !models.ValidTableStatus(req.Status) {
		return table, fmt.Errorf("%w: unknown table status %q", ErrValidation, req.Status)
	}

	if err := s.DB.Where("table_number = ?", req.TableNumber).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return table, ErrTableNotFound
		}
		return table, err
	}

	newStatus := req.Status
	if !req.Force {
		switch req.Status {
		case models.TableAvailable, models.TablePending:
			if table.Status == models.TableAvailable {
				newStatus = models.TablePending
			} else {
				newStatus = table.Status
			}
		case models.TableOccupied:
			var count int64
			if err := s.DB.Model(&models.Order{}).
				Where("table_number = ?", req.TableNumber).
				Count(&count).Error; err != nil {
				return table, err
			}
			if count == 0 {
				// Stale client claiming occupancy without a backing order.
				newStatus = models.TableAvailable
			}
		}
	}

	table.Status = newStatus
	if err := s.DB.Save(&table).Error; err != nil {
		return table, err
	}
	return table, nil
}

// GetActiveOrderByTable returns the single active order for a table.
func (s *OrderLifecycle) GetActiveOrderByTable(tableNumber int) (models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Where("table_number = ?", tableNumber).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, ErrOrderNotFound
	}
	return order, err
}

// GetActiveOrderByID returns an active order by its identifier.
func (s *OrderLifecycle) GetActiveOrderByID(id uint) (models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, ErrOrderNotFound
	}
	return order, err
}

// ListActiveOrders returns active orders whose type starts with prefix
// (case-insensitive), e.g. "Dine-in" or "Takeaway". An empty prefix returns
// every active order.
func (s *OrderLifecycle) ListActiveOrders(prefix string) ([]models.Order, error) {
	var orders []models.Order
	q := s.DB.Preload("Items").Order("order_date DESC")
	if prefix != "" {
		q = q.Where("LOWER(order_type) LIKE ?", strings.ToLower(prefix)+"%")
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpsertDineIn creates or wholesale-updates the active order for a table and
// forces the table to Occupied. The Occupied side effect fires on every
// upsert, not only the first, so a table can never stay free while money is
// on it. An empty item list is accepted on an existing order (clear-cart)
// but rejected on create. Returns the stored order and whether it was created.
func (s *OrderLifecycle) UpsertDineIn(p OrderPayload) (models.Order, bool, error) {
	var order models.Order

	if p.TableNumber == nil {
		return order, false, fmt.Errorf("%w: tableNumber is required", ErrValidation)
	}
	if err := validateAttribution(p); err != nil {
		return order, false, err
	}

	var table models.Table
	if err := s.DB.Where("table_number = ?", *p.TableNumber).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, false, ErrTableNotFound
		}
		return order, false, err
	}

	err := s.DB.Where("table_number = ?", *p.TableNumber).First(&order).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if len(p.Items) == 0 {
			return order, false, fmt.Errorf("%w: items are required", ErrValidation)
		}
		orderType := p.OrderType
		if orderType == "" {
			orderType = fmt.Sprintf("%s Table %d", models.OrderTypeDineInPrefix, *p.TableNumber)
		}
		order = models.Order{
			OrderRef:     uuid.NewString(),
			TableNumber:  p.TableNumber,
			CustomerName: p.CustomerName,
			OrderType:    orderType,
			Items:        p.Items,
			TotalAmount:  *p.TotalAmount,
			OrderDate:    orderDate(p),
			EmployeeID:   p.EmployeeID,
			EmployeeName: p.EmployeeName,
		}

		tx := s.DB.Begin()
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			return order, false, err
		}
		if err := occupyTable(tx, &table); err != nil {
			tx.Rollback()
			return order, false, err
		}
		if err := tx.Commit().Error; err != nil {
			return order, false, err
		}
		return order, true, nil

	case err != nil:
		return order, false, err
	}

	tx := s.DB.Begin()
	if err := s.replaceOrder(tx, &order, p); err != nil {
		tx.Rollback()
		return order, false, err
	}
	if err := occupyTable(tx, &table); err != nil {
		tx.Rollback()
		return order, false, err
	}
	if err := tx.Commit().Error; err != nil {
		return order, false, err
	}
	return order, false, nil
}

// UpsertTakeaway creates a takeaway order, or wholesale-updates one when
// OrderID is set. Takeaway orders have no table, so there is no status side
// effect, and they always require a non-empty item list.
func (s *OrderLifecycle) UpsertTakeaway(p OrderPayload) (models.Order, bool, error) {
	var order models.Order

	if p.OrderType == "" {
		return order, false, fmt.Errorf("%w: orderType is required", ErrValidation)
	}
	if len(p.Items) == 0 {
		return order, false, fmt.Errorf("%w: items are required", ErrValidation)
	}
	if err := validateAttribution(p); err != nil {
		return order, false, err
	}

	if p.OrderID == 0 {
		order = models.Order{
			OrderRef:     uuid.NewString(),
			CustomerName: p.CustomerName,
			OrderType:    p.OrderType,
			Items:        p.Items,
			TotalAmount:  *p.TotalAmount,
			OrderDate:    orderDate(p),
			EmployeeID:   p.EmployeeID,
			EmployeeName: p.EmployeeName,
		}
		if err := s.DB.Create(&order).Error; err != nil {
			return order, false, err
		}
		return order, true, nil
	}

	if err := s.DB.First(&order, p.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, false, ErrOrderNotFound
		}
		return order, false, err
	}

	tx := s.DB.Begin()
	if err := s.replaceOrder(tx, &order, p); err != nil {
		tx.Rollback()
		return order, false, err
	}
	if err := tx.Commit().Error; err != nil {
		return order, false, err
	}
	return order, false, nil
}

// Pay archives an active order into the history ledger, deletes it and, for
// dine-in orders, releases the table. The history insert and the delete run in
// a single transaction so a partial failure can never lose the order: the
// active order is only removed once its snapshot is durably stored.
func (s *OrderLifecycle) Pay(tableNumber *int, orderID uint) (PayResult, error) {
	var result PayResult

	if tableNumber == nil && orderID == 0 {
		return result, fmt.Errorf("%w: tableNumber or orderId is required", ErrValidation)
	}
	if tableNumber != nil && orderID != 0 {
		return result, fmt.Errorf("%w: supply either tableNumber or orderId, not both", ErrValidation)
	}

	var order models.Order
	var err error
	if tableNumber != nil {
		order, err = s.GetActiveOrderByTable(*tableNumber)
	} else {
		order, err = s.GetActiveOrderByID(orderID)
	}
	if err != nil {
		return result, err
	}

	history := models.OrderHistory{
		OrderRef:     order.OrderRef,
		TableNumber:  order.TableNumber,
		CustomerName: order.CustomerName,
		OrderType:    order.OrderType,
		TotalAmount:  order.TotalAmount,
		OrderDate:    order.OrderDate,
		PaymentDate:  time.Now().UTC(),
		Tip:          nil,
		EmployeeID:   order.EmployeeID,
		EmployeeName: order.EmployeeName,
	}
	for _, item := range order.Items {
		history.Items = append(history.Items, models.OrderHistoryItem{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	tx := s.DB.Begin()
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return result, fmt.Errorf("failed to create order history entry: %w", err)
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return result, s.abortPay(tx, err)
	}
	if err := tx.Delete(&order).Error; err != nil {
		return result, s.abortPay(tx, err)
	}
	if order.TableNumber != nil {
		if err := tx.Model(&models.Table{}).
			Where("table_number = ?", *order.TableNumber).
			Update("status", models.TableAvailable).Error; err != nil {
			return result, s.abortPay(tx, err)
		}
		result.TableStatus = models.TableAvailable
	}
	if err := tx.Commit().Error; err != nil {
		return result, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}

	result.History = history
	return result, nil
}

// abortPay rolls the pay transaction back after the history snapshot was
// written. A failed rollback means the order may now exist in both stores.
func (s *OrderLifecycle) abortPay(tx *gorm.DB, cause error) error {
	if rbErr := tx.Rollback().Error; rbErr != nil {
		return fmt.Errorf("%w: %v (rollback: %v)", ErrInconsistentState, cause, rbErr)
	}
	return fmt.Errorf("failed to remove paid order, payment aborted: %w", cause)
}

// ListHistory returns every ledger entry, newest payment first.
func (s *OrderLifecycle) ListHistory() ([]models.OrderHistory, error) {
	var entries []models.OrderHistory
	if err := s.DB.Preload("Items").Order("payment_date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateTip sets or clears the tip on a history entry. A nil tip stores NULL,
// not zero.
func (s *OrderLifecycle) UpdateTip(historyID uint, tip *float64) (models.OrderHistory, error) {
	var entry models.OrderHistory

	if tip != nil && *tip < 0 {
		return entry, fmt.Errorf("%w: invalid tip amount", ErrValidation)
	}

	if err := s.DB.Preload("Items").First(&entry, historyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entry, ErrHistoryNotFound
		}
		return entry, err
	}

	if err := s.DB.Model(&entry).Update("tip", tip).Error; err != nil {
		return entry, err
	}
	entry.Tip = tip
	return entry, nil
}

// replaceOrder overwrites the stored order's items, total, date and employee
// attribution with the payload's values. Items are deleted and re-created so
// the stored list always equals the submitted one exactly.
func (s *OrderLifecycle) replaceOrder(tx *gorm.DB, order *models.Order, p OrderPayload) error {
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}

	items := make([]models.OrderItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = models.OrderItem{
			OrderID:  order.ID,
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
	}

	order.Items = items
	order.TotalAmount = *p.TotalAmount
	order.OrderDate = orderDate(p)
	order.EmployeeID = p.EmployeeID
	order.EmployeeName = p.EmployeeName
	if p.CustomerName != nil {
		order.CustomerName = p.CustomerName
	}
	if p.OrderType != "" {
		order.OrderType = p.OrderType
	}

	return tx.Omit("Items").Save(order).Error
}

func validateAttribution(p OrderPayload) error {
	if p.EmployeeID == 0 || p.EmployeeName == "" {
		return fmt.Errorf("%w: employee information is required", ErrValidation)
	}
	if p.TotalAmount == nil || *p.TotalAmount < 0 {
		return fmt.Errorf("%w: totalAmount is required", ErrValidation)
	}
	for _, item := range p.Items {
		if item.ItemName == "" || item.Quantity < 1 || item.Price < 0 {
			return fmt.Errorf("%w: invalid order item", ErrValidation)
		}
	}
	return nil
}

func occupyTable(tx *gorm.DB, table *models.Table) error {
	table.Status = models.TableOccupied
	return tx.Save(table).Error
}

func orderDate(p OrderPayload) time.Time {
	if p.OrderDate != nil {
		return *p.OrderDate
	}
	return time.Now().UTC()
}
