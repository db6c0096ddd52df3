package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lotusgarden/pos-app/models"
)

// ErrNoActiveOrder is returned when the server holds no order for the
// requested table or id.
var ErrNoActiveOrder = errors.New("no active order on server")

// APIError is a non-2xx response from the order service.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order service: %s (status %d)", e.Message, e.Code)
}

// OrderRequest is the upsert payload sent to the order service. Items always
// carry the entire resulting list, never a delta.
type OrderRequest struct {
	TableNumber  *int       `json:"tableNumber,omitempty"`
	OrderID      uint       `json:"orderId,omitempty"`
	CustomerName *string    `json:"customerName,omitempty"`
	OrderType    string     `json:"orderType"`
	Items        []ItemWire `json:"items"`
	TotalAmount  float64    `json:"totalAmount"`
	OrderDate    time.Time  `json:"orderDate"`
	EmployeeID   uint       `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
}

type ItemWire struct {
	ItemName string  `json:"itemName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// StatusRequest is the PUT /tables body.
type StatusRequest struct {
	TableNumber int    `json:"tableNumber"`
	TableStatus string `json:"tableStatus"`
	ForceUpdate bool   `json:"forceUpdate,omitempty"`
}

// PayRequest identifies the order being paid; exactly one field is set.
type PayRequest struct {
	TableNumber *int `json:"tableNumber,omitempty"`
	OrderID     uint `json:"orderId,omitempty"`
}

// PayResult is the POST /pay response payload.
type PayResult struct {
	OrderHistory models.OrderHistory `json:"orderHistory"`
	TableStatus  string              `json:"tableStatus"`
}

// Client talks to the order service REST boundary.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetTableOrder fetches the active order for a table, or ErrNoActiveOrder.
func (c *Client) GetTableOrder(tableNumber int) (models.Order, error) {
	var order models.Order
	err := c.do(http.MethodGet, fmt.Sprintf("/tables?tableNumber=%d", tableNumber), nil, &order)
	return order, mapNotFound(err)
}

// GetTakeawayOrder fetches a takeaway order by id, or ErrNoActiveOrder.
func (c *Client) GetTakeawayOrder(orderID uint) (models.Order, error) {
	var order models.Order
	err := c.do(http.MethodGet, fmt.Sprintf("/takeaway?orderId=%d", orderID), nil, &order)
	return order, mapNotFound(err)
}

// UpsertDineIn pushes the full item list for a table.
func (c *Client) UpsertDineIn(req OrderRequest) (models.Order, error) {
	var order models.Order
	err := c.do(http.MethodPost, "/tables", req, &order)
	return order, err
}

// UpsertTakeaway creates or replaces a takeaway order.
func (c *Client) UpsertTakeaway(req OrderRequest) (models.Order, error) {
	var order models.Order
	err := c.do(http.MethodPost, "/takeaway", req, &order)
	return order, err
}

// UpdateTableStatus requests a table status transition and returns the actual
// resulting table record.
func (c *Client) UpdateTableStatus(req StatusRequest) (models.Table, error) {
	var table models.Table
	err := c.do(http.MethodPut, "/tables", req, &table)
	return table, err
}

// Pay finalizes an order.
func (c *Client) Pay(req PayRequest) (PayResult, error) {
	var result PayResult
	err := c.do(http.MethodPost, "/pay", req, &result)
	return result, err
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("order service: malformed response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Code: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// mapNotFound converts a 404 into ErrNoActiveOrder so callers can branch on
// the absence of an order without inspecting status codes.
func mapNotFound(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return ErrNoActiveOrder
	}
	return err
}
