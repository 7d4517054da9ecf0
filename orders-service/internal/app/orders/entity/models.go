package entity

import "time"

// Статусы, которые встречаются в statusHistory.
// Переходы не ограничены, любой статус может следовать за любым.
const (
	StatusOrder      = "Order"
	StatusPaypal     = "Paypal"
	StatusPayInCash  = "Pay in Cash"
	StatusEMS        = "EMS"
	StatusInDelivery = "In Delivery"
	StatusDelivered  = "Delivered"
)

// PackingStatusPrefix запись упаковки в истории: "Packing: <status>"
const PackingStatusPrefix = "Packing: "

// Отправители сообщений в чате заказа
const (
	SenderAdmin    = "Admin"
	SenderCustomer = "Customer"
)

// IsPaymentMethod способы оплаты, которые пишутся в историю как статус
func IsPaymentMethod(s string) bool {
	return s == StatusPaypal || s == StatusPayInCash || s == StatusEMS
}

// IsDeliveryStatus статусы доставки, выставляемые администратором
func IsDeliveryStatus(s string) bool {
	return s == StatusInDelivery || s == StatusDelivered
}

// Order документ таблицы Orders
type Order struct {
	OrderID         string          `json:"orderId" dynamodbav:"orderId"`
	UserSeq         int64           `json:"userId" dynamodbav:"userId"`
	UserEmail       string          `json:"userEmail" dynamodbav:"userEmail"`
	Customer        string          `json:"customer" dynamodbav:"customer"`
	OrderItems      []OrderItem     `json:"orderItems" dynamodbav:"orderItems"`
	TotalAmount     float64         `json:"totalAmount" dynamodbav:"totalAmount"`
	Status          string          `json:"status" dynamodbav:"status"`
	StatusHistory   []StatusEntry   `json:"statusHistory" dynamodbav:"statusHistory"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails" dynamodbav:"deliveryDetails"`
	Packing         Packing         `json:"packing" dynamodbav:"packing"`
	PaymentMethod   string          `json:"paymentMethod,omitempty" dynamodbav:"paymentMethod,omitempty"`
	PaymentStatus   string          `json:"paymentStatus,omitempty" dynamodbav:"paymentStatus,omitempty"`
	CaptureID       string          `json:"captureId,omitempty" dynamodbav:"captureId,omitempty"`
	Messages        []Message       `json:"messages" dynamodbav:"messages"`
	Date            time.Time       `json:"date" dynamodbav:"date"`
}

// LastMessage последнее сообщение чата или nil
func (o *Order) LastMessage() *Message {
	if len(o.Messages) == 0 {
		return nil
	}
	return &o.Messages[len(o.Messages)-1]
}

type OrderItem struct {
	ProductID string  `json:"productId" dynamodbav:"productId"`
	Name      string  `json:"name" dynamodbav:"name"`
	Quantity  int     `json:"quantity" dynamodbav:"quantity"`
	Price     float64 `json:"price" dynamodbav:"price"`
}

// StatusEntry неизменяемая запись истории статусов
type StatusEntry struct {
	NewStatus      string    `json:"newStatus" dynamodbav:"newStatus"`
	TrackingNumber string    `json:"trackingNumber,omitempty" dynamodbav:"trackingNumber,omitempty"`
	Timestamp      time.Time `json:"timestamp" dynamodbav:"timestamp"`
	ChangedBy      string    `json:"changedBy,omitempty" dynamodbav:"changedBy,omitempty"`
}

type DeliveryDetails struct {
	Address        string `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Status         string `json:"status,omitempty" dynamodbav:"status,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty" dynamodbav:"trackingNumber,omitempty"`
}

type Packing struct {
	Status    string     `json:"status,omitempty" dynamodbav:"status,omitempty"`
	Note      string     `json:"note,omitempty" dynamodbav:"note,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

// Message сообщение в чате заказа между покупателем и администратором
type Message struct {
	Sender    string    `json:"sender" dynamodbav:"sender"`
	Text      string    `json:"text" dynamodbav:"text"`
	Timestamp time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// Типы событий в топике order_events
const (
	EventStatusChanged = "ORDER_STATUS_CHANGED"
	EventMessage       = "ORDER_MESSAGE"
)

// OrderEvent событие для Kafka, по нему users-service создает уведомление
type OrderEvent struct {
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	UserSeq        int64     `json:"user_seq"`
	UserEmail      string    `json:"user_email"`
	Status         string    `json:"status,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Message        string    `json:"message,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// PushMessage уведомление на устройство
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Caller владелец запроса: покупатель (seq из токена) или администратор
type Caller struct {
	Seq   int64
	Email string
	Admin bool
}
