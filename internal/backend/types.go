package backend

import "time"

// Product is a catalog entry owned by the backend
type Product struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// ProductUpdate is a partial update of product fields by SKU
type ProductUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// Sale is a single sales transaction
type Sale struct {
	TransactionID string    `json:"transaction_id"`
	SKU           string    `json:"sku"`
	Timestamp     time.Time `json:"timestamp"`
	Quantity      int       `json:"quantity"`
}

// StockLevel is the on-hand stock for one SKU
type StockLevel struct {
	SKU         string `json:"sku"`
	StockOnHand int    `json:"stock_on_hand"`
}

// StockSnapshot pairs on-hand and virtual stock for one SKU. Virtual
// stock is the forward-looking projection including everything on order.
type StockSnapshot struct {
	SKU                   string `json:"sku"`
	ProductName           string `json:"product_name"`
	StockOnHand           int    `json:"stock_on_hand"`
	VirtualStock          int    `json:"virtual_stock"`
	PendingOrdersQuantity int    `json:"pending_orders_quantity"`
}

// Consistent reports whether the snapshot satisfies
// virtual_stock == stock_on_hand + pending_orders_quantity.
func (s StockSnapshot) Consistent() bool {
	return s.VirtualStock == s.StockOnHand+s.PendingOrdersQuantity
}

// LowStockProduct is an item flagged below the backend's low-stock
// threshold at analysis time
type LowStockProduct struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	CurrentStock int     `json:"current_stock"`
	Price        float64 `json:"price"`
}

// Order is a restocking order placed by the automated workflow
type Order struct {
	OrderID       string    `json:"order_id"`
	SKU           string    `json:"sku"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	EstimatedCost float64   `json:"estimated_cost"`
	OrderDate     time.Time `json:"order_date"`
}

// AnalysisSummary aggregates an analysis result
type AnalysisSummary struct {
	TotalLowStock     int `json:"total_low_stock"`
	TotalOrders       int `json:"total_orders"`
	TotalUnitsOrdered int `json:"total_units_ordered"`
}

// AnalysisResult is an immutable snapshot produced by the inference
// collaborator. Each fetch supersedes the previous one wholesale.
type AnalysisResult struct {
	LowStockProducts []LowStockProduct `json:"low_stock_products"`
	OrdersPlaced     []Order           `json:"orders_placed"`
	Summary          AnalysisSummary   `json:"summary"`
}

// ConsistentSummary reports whether the summary agrees with the order
// sequence it claims to describe.
func (r *AnalysisResult) ConsistentSummary() bool {
	units := 0
	for _, o := range r.OrdersPlaced {
		units += o.Quantity
	}
	return r.Summary.TotalOrders == len(r.OrdersPlaced) &&
		r.Summary.TotalUnitsOrdered == units
}

// QueryAck is the inference collaborator's acknowledgement of a query
type QueryAck struct {
	Response string `json:"response"`
}

// HistoryEntry is one query/response pair from the session history
type HistoryEntry struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// HistoryResponse wraps the session history sequence
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// RestockResult is the outcome of the automatic-restock operation
type RestockResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ReceivedOrder is one order settled by the bulk-receive operation
type ReceivedOrder struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	NewStock int    `json:"new_stock"`
}

// ReceiveResult is the outcome of the bulk-receive operation
type ReceiveResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Orders  []ReceivedOrder `json:"orders"`
}
