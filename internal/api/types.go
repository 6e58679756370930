package api

import "time"

// Product представляет товар каталога
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         string  `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      *string `json:"image_url"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// CartItem представляет позицию корзины
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart представляет корзину пользователя
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Total     string     `json:"total"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// OrderItem представляет позицию заказа с зафиксированной ценой
type OrderItem struct {
	ID              int64   `json:"id"`
	Product         Product `json:"product"`
	PriceAtPurchase string  `json:"price_at_purchase"`
	Quantity        int     `json:"quantity"`
}

// OrderUser представляет владельца заказа (только в админских ответах)
type OrderUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Order представляет заказ
type Order struct {
	ID          string      `json:"id"`
	User        *OrderUser  `json:"user,omitempty"`
	Status      string      `json:"status"`
	TotalAmount string      `json:"total_amount"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Статусы заказа
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCancelled = "CANCELLED"
)

// ValidOrderStatus проверяет, что статус заказа входит в допустимый набор
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// UserProfile представляет идентичность пользователя.
// Если сервер не вернул данные пользователя, сохраняется минимальный
// маркер с IsAuthenticated=true без остальных полей.
type UserProfile struct {
	ID              int64  `json:"id,omitempty"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	IsStaff         bool   `json:"is_staff,omitempty"`
	IsSuperuser     bool   `json:"is_superuser,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated,omitempty"`
}

// User представляет пользователя в админском списке
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
}

// TokenResponse представляет ответ эндпоинта /token/
type TokenResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *UserProfile `json:"user,omitempty"`
}

// RegisterRequest представляет тело запроса регистрации
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
