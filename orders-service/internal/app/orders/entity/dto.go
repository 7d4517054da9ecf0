package entity

type CreateOrderRequest struct {
	Customer    string             `json:"customer" validate:"required,max=200"`
	Items       []OrderItemRequest `json:"orderItems" validate:"required,min=1,dive"`
	TotalAmount float64            `json:"totalAmount" validate:"gte=0"`
	Address     string             `json:"address" validate:"max=500"`
}

type OrderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type PaymentRequest struct {
	Method    string `json:"method" validate:"required,oneof=Paypal 'Pay in Cash' EMS"`
	CaptureID string `json:"captureId" validate:"max=100"`
}

type DeliveryRequest struct {
	Status         string `json:"status" validate:"required,oneof='In Delivery' Delivered"`
	TrackingNumber string `json:"trackingNumber" validate:"max=100"`
}

type PackingRequest struct {
	Status string `json:"status" validate:"required,max=50"`
	Note   string `json:"note" validate:"max=1000"`
}

type MessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ErrorResponse error текст HTTP статуса, message пояснение для человека
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}
