package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/lotusgarden/pos-app/models"
)

// TaxRate is applied on top of the cart subtotal when computing the total
// sent to the server. Totals are caller-computed; the server never recomputes
// them.
const TaxRate = 0.0975

// State tags a cart session. A Draft cart is free to mutate locally; once
// Fired, every mutation is pushed to the server before it is applied.
type State string

const (
	StateDraft State = "Draft"
	StateFired State = "Fired"
)

var (
	ErrUpdateDeclined = errors.New("update declined by operator")
	ErrAlreadyFired   = errors.New("order has already been fired")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotFired       = errors.New("order has not been fired")
)

// Item is one cart line. ID is the menu item identifier used for
// increment/decrement addressing.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Employee attributes fired orders to the logged-in operator.
type Employee struct {
	ID   uint
	Name string
}

// ConfirmFunc asks the operator to approve a mutation of a fired order.
// A nil ConfirmFunc approves everything.
type ConfirmFunc func(prompt string) bool

// Session is the cart state machine for one table or takeaway ticket. All
// mutations funnel through reconcile, which applies the Draft/Fired policy:
// Draft edits stay local, Fired edits are confirmed, pushed wholesale to the
// server, and only applied locally once the server accepts them.
type Session struct {
	client   *Client
	store    Store
	confirm  ConfirmFunc
	employee Employee

	key         string
	tableNumber int  // 0 for takeaway
	source      string
	orderID     uint // takeaway only, assigned by the server on fire
	state       State
	items       []Item
}

// NewTableSession opens the cart for a dine-in table. If the server already
// holds an order for the table the session resumes in Fired state (adopting
// the server's items when no local draft exists); otherwise the table is
// selected (Available -> Pending) and the session starts as a draft.
func NewTableSession(client *Client, store Store, confirm ConfirmFunc, employee Employee, tableNumber int) (*Session, error) {
	s := &Session{
		client:      client,
		store:       store,
		confirm:     confirm,
		employee:    employee,
		key:         fmt.Sprintf("table-%d", tableNumber),
		tableNumber: tableNumber,
		state:       StateDraft,
	}

	items, err := store.Load(s.key)
	if err != nil {
		return nil, err
	}
	s.items = items

	order, err := client.GetTableOrder(tableNumber)
	switch {
	case err == nil:
		s.state = StateFired
		s.orderID = order.ID
		if len(s.items) == 0 {
			s.adopt(order)
		}
	case errors.Is(err, ErrNoActiveOrder):
		if _, err := client.UpdateTableStatus(StatusRequest{
			TableNumber: tableNumber,
			TableStatus: models.TableAvailable,
		}); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s, nil
}

// NewTakeawaySession opens the cart for the takeaway workstation. A non-zero
// resumeOrderID resumes an already-fired ticket in Fired state.
func NewTakeawaySession(client *Client, store Store, confirm ConfirmFunc, employee Employee, source string, resumeOrderID uint) (*Session, error) {
	if source == "" {
		source = "Walk-in"
	}
	s := &Session{
		client:   client,
		store:    store,
		confirm:  confirm,
		employee: employee,
		key:      "takeaway",
		source:   source,
		state:    StateDraft,
	}

	items, err := store.Load(s.key)
	if err != nil {
		return nil, err
	}
	s.items = items

	if resumeOrderID != 0 {
		order, err := client.GetTakeawayOrder(resumeOrderID)
		if err != nil {
			return nil, err
		}
		s.state = StateFired
		s.orderID = order.ID
		s.adopt(order)
	}

	return s, nil
}

func (s *Session) State() State  { return s.state }
func (s *Session) OrderID() uint { return s.orderID }

// Items returns a copy of the cart lines.
func (s *Session) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Session) Subtotal() float64 {
	var sum float64
	for _, item := range s.items {
		sum += item.Price * float64(item.Qty)
	}
	return sum
}

func (s *Session) Tax() float64 {
	return s.Subtotal() * TaxRate
}

func (s *Session) Total() float64 {
	return s.Subtotal() + s.Tax()
}

// Add puts one unit of a menu item in the cart, incrementing the quantity if
// the line already exists.
func (s *Session) Add(id, name string, price float64) error {
	next := s.copyItems()
	found := false
	for i := range next {
		if next[i].ID == id {
			next[i].Qty++
			found = true
			break
		}
	}
	if !found {
		next = append(next, Item{ID: id, Name: name, Price: price, Qty: 1})
	}
	return s.reconcile(next)
}

// Increment raises a line's quantity by one.
func (s *Session) Increment(id string) error {
	next := s.copyItems()
	for i := range next {
		if next[i].ID == id {
			next[i].Qty++
			return s.reconcile(next)
		}
	}
	return fmt.Errorf("no cart item with id %q", id)
}

// Decrement lowers a line's quantity by one, removing the line at zero.
func (s *Session) Decrement(id string) error {
	next := s.copyItems()
	for i := range next {
		if next[i].ID == id {
			next[i].Qty--
			if next[i].Qty <= 0 {
				next = append(next[:i], next[i+1:]...)
			}
			return s.reconcile(next)
		}
	}
	return fmt.Errorf("no cart item with id %q", id)
}

// Remove drops a line entirely.
func (s *Session) Remove(id string) error {
	next := s.copyItems()
	for i := range next {
		if next[i].ID == id {
			next = append(next[:i], next[i+1:]...)
			return s.reconcile(next)
		}
	}
	return fmt.Errorf("no cart item with id %q", id)
}

// Clear empties the cart. On a fired dine-in order the empty list is pushed
// to the server (the active order record itself survives; only payment
// deletes it).
func (s *Session) Clear() error {
	return s.reconcile([]Item{})
}

// Fire submits the draft as a persisted order. Only valid on a non-empty
// draft; afterwards the session is in Fired state and every further mutation
// goes through the server.
func (s *Session) Fire() error {
	if s.state != StateDraft {
		return ErrAlreadyFired
	}
	if len(s.items) == 0 {
		return ErrEmptyCart
	}

	order, err := s.push(s.items)
	if err != nil {
		return err
	}
	s.state = StateFired
	s.orderID = order.ID
	s.persist()
	return nil
}

// Pay finalizes the order and clears the cart. Dine-in requires a non-empty
// cart; takeaway requires a fired order.
func (s *Session) Pay() (PayResult, error) {
	var req PayRequest
	if s.tableNumber > 0 {
		if len(s.items) == 0 {
			return PayResult{}, ErrEmptyCart
		}
		n := s.tableNumber
		req.TableNumber = &n
	} else {
		if s.orderID == 0 {
			return PayResult{}, ErrNotFired
		}
		req.OrderID = s.orderID
	}

	result, err := s.client.Pay(req)
	if err != nil {
		return PayResult{}, err
	}

	s.items = nil
	s.orderID = 0
	s.state = StateDraft
	if s.store != nil {
		s.store.Delete(s.key)
	}
	return result, nil
}

// Abandon is called when the operator navigates away. A never-fired table
// with an empty cart is force-released back to Available so it does not stay
// Pending forever.
func (s *Session) Abandon() error {
	if s.tableNumber == 0 {
		return nil
	}
	if s.state != StateDraft || len(s.items) != 0 {
		return nil
	}
	_, err := s.client.UpdateTableStatus(StatusRequest{
		TableNumber: s.tableNumber,
		TableStatus: models.TableAvailable,
		ForceUpdate: true,
	})
	return err
}

// reconcile is the single mutation path. Draft: apply and persist locally.
// Fired: confirm with the operator, push the full resulting list, and apply
// locally only after the server accepted it; on failure the cart is left
// untouched.
func (s *Session) reconcile(next []Item) error {
	if s.state == StateDraft {
		s.items = next
		s.persist()
		return nil
	}

	if s.confirm != nil && !s.confirm("Are you sure you want to update this order?") {
		return ErrUpdateDeclined
	}

	if _, err := s.push(next); err != nil {
		return err
	}
	s.items = next
	s.persist()
	return nil
}

// push sends the entire item list and the recomputed total to the server.
func (s *Session) push(items []Item) (models.Order, error) {
	wire := make([]ItemWire, len(items))
	var subtotal float64
	for i, item := range items {
		wire[i] = ItemWire{
			ItemName: item.Name,
			Quantity: item.Qty,
			Price:    item.Price,
		}
		subtotal += item.Price * float64(item.Qty)
	}
	total := subtotal + subtotal*TaxRate

	req := OrderRequest{
		Items:        wire,
		TotalAmount:  total,
		OrderDate:    time.Now().UTC(),
		EmployeeID:   s.employee.ID,
		EmployeeName: s.employee.Name,
	}

	if s.tableNumber > 0 {
		n := s.tableNumber
		req.TableNumber = &n
		req.OrderType = fmt.Sprintf("%s Table %d", models.OrderTypeDineInPrefix, s.tableNumber)
		return s.client.UpsertDineIn(req)
	}

	req.OrderID = s.orderID
	req.OrderType = fmt.Sprintf("%s - %s", models.OrderTypeTakeawayPrefix, s.source)
	return s.client.UpsertTakeaway(req)
}

func (s *Session) adopt(order models.Order) {
	items := make([]Item, len(order.Items))
	for i, item := range order.Items {
		items[i] = Item{
			ID:    item.ItemName,
			Name:  item.ItemName,
			Price: item.Price,
			Qty:   item.Quantity,
		}
	}
	s.items = items
	s.persist()
}

func (s *Session) copyItems() []Item {
	next := make([]Item, len(s.items))
	copy(next, s.items)
	return next
}

func (s *Session) persist() {
	if s.store == nil {
		return
	}
	// Losing the local draft is recoverable; the server copy is
	// authoritative once fired.
	_ = s.store.Save(s.key, s.items)
}
