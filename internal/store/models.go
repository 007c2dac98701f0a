package store

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	InStock     int       `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Order struct {
	ID          int64     `json:"id"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail"`
	ClientPhone string    `json:"clientPhone"`
	TotalAmount float64   `json:"totalAmount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"orderId"`
	ProductID int64 `json:"productId"`
	// Name of the product as it is now, resolved on read.
	ProductName string  `json:"productName,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderSummary is the list-orders row: the order plus a flattened
// "productId:quantity:price" summary of its items.
type OrderSummary struct {
	Order
	Items string `json:"items"`
}

// OrderDetail is the get-order response: the order with resolved items.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}
