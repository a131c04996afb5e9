package dto

// CreateOrderRequest is the payload for placing an order
type CreateOrderRequest struct {
	BeanID       uint   `json:"beanId" validate:"required"`
	CustomerName string `json:"customerName" validate:"required,min=1,max=255"`
	Email        string `json:"email" validate:"required,email_shape,max=255"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
}

// OrderDTO is the API representation of a placed order
type OrderDTO struct {
	ID           uint   `json:"id"`
	UUID         string `json:"uuid"`
	BeanID       uint   `json:"bean_id"`
	BeanName     string `json:"bean_name"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Quantity     int    `json:"quantity"`
	TotalCost    string `json:"total_cost"`
	CreatedAt    string `json:"created_at"`
}

// CreateOrderResponse is returned after an order has been persisted
type CreateOrderResponse struct {
	Message string   `json:"message"`
	Order   OrderDTO `json:"order"`
}

// ListOrdersResponse lists all orders newest-first
type ListOrdersResponse struct {
	Message string     `json:"message"`
	Items   []OrderDTO `json:"items"`
}

// ClearOrdersResponse reports how many orders were removed
type ClearOrdersResponse struct {
	Message string `json:"message"`
	Cleared int64  `json:"cleared"`
}
