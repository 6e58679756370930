package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Abdulrehman1203/invera-tech-store/pkg/logger"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/metrics"
)

// TokenProvider возвращает текущий access токен или пустую строку
type TokenProvider func() string

// Client представляет HTTP клиент для REST API магазина.
// Подставляет bearer токен в исходящие запросы и считает метрики.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewClient создает новый API клиент
func NewClient(baseURL string, timeout time.Duration, tokens TokenProvider, log logger.Logger, m *metrics.Metrics) *Client {
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		tokens:  tokens,
		logger:  log,
		metrics: m,
	}
}

// do выполняет запрос с JSON телом и декодирует JSON ответ в out
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	contentType := ""

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
		contentType = "application/json"
	}

	return c.send(ctx, method, path, reader, contentType, out)
}

// send выполняет подготовленный запрос и обрабатывает ответ
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	start := time.Now()

	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("User-Agent", "Invera-CLI/1.0")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if token := c.tokens(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.countError(method, path, "transport_error")
		c.logger.Error("ошибка выполнения запроса",
			logger.String("method", method),
			logger.String("path", path),
			logger.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.RequestCount.WithLabelValues(method, path, strconv.Itoa(resp.StatusCode)).Inc()
	c.metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.countError(method, path, "read_error")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.countError(method, path, "status_"+strconv.Itoa(resp.StatusCode))
		c.logger.Debug("сервер вернул ошибку",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode))
		return &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.countError(method, path, "decode_error")
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) countError(method, path, errorType string) {
	c.metrics.ErrorsCount.WithLabelValues(method, path, errorType).Inc()
}

// ObtainToken обменивает логин и пароль на пару токенов
func (c *Client) ObtainToken(ctx context.Context, login, password string) (*TokenResponse, error) {
	body := map[string]string{
		"login":    login,
		"password": password,
	}

	var resp TokenResponse
	if err := c.do(ctx, http.MethodPost, "/token/", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register создает новую учетную запись
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/register/", req, nil)
}

// ListProducts возвращает список активных товаров
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetCart возвращает текущую корзину пользователя
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/cart/", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem добавляет товар в корзину
func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) error {
	body := map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	}
	return c.do(ctx, http.MethodPost, "/cart/items/", body, nil)
}

// UpdateCartItem изменяет количество позиции корзины
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/cart/items/%d/", itemID), body, nil)
}

// RemoveCartItem удаляет позицию из корзины
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d/", itemID), nil, nil)
}

// Checkout оформляет заказ из текущей корзины
func (c *Client) Checkout(ctx context.Context) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders/checkout/", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders возвращает заказы текущего пользователя
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ProductForm представляет поля товара для создания или изменения.
// Если указан ImagePath, запрос отправляется как multipart с файлом.
type ProductForm struct {
	Name          string
	Description   string
	Price         string
	StockQuantity int
	IsActive      bool
	ImagePath     string
}

// ListAdminProducts возвращает все товары, включая неактивные
func (c *Client) ListAdminProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/admin/products/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct создает товар (только для администраторов)
func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (*Product, error) {
	return c.submitProduct(ctx, http.MethodPost, "/admin/products/", form)
}

// UpdateProduct изменяет товар (только для администраторов)
func (c *Client) UpdateProduct(ctx context.Context, productID int64, form ProductForm) (*Product, error) {
	return c.submitProduct(ctx, http.MethodPatch, fmt.Sprintf("/admin/products/%d/", productID), form)
}

func (c *Client) submitProduct(ctx context.Context, method, path string, form ProductForm) (*Product, error) {
	var product Product

	if form.ImagePath == "" {
		body := map[string]interface{}{
			"name":           form.Name,
			"description":    form.Description,
			"price":          form.Price,
			"stock_quantity": form.StockQuantity,
			"is_active":      form.IsActive,
		}
		if err := c.do(ctx, method, path, body, &product); err != nil {
			return nil, err
		}
		return &product, nil
	}

	body, contentType, err := encodeProductMultipart(form)
	if err != nil {
		return nil, err
	}
	if err := c.send(ctx, method, path, body, contentType, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// encodeProductMultipart кодирует поля товара и файл изображения
func encodeProductMultipart(form ProductForm) (io.Reader, string, error) {
	file, err := os.Open(form.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":           form.Name,
		"description":    form.Description,
		"price":          form.Price,
		"stock_quantity": strconv.Itoa(form.StockQuantity),
		"is_active":      strconv.FormatBool(form.IsActive),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("image", filepath.Base(form.ImagePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// DeleteProduct удаляет товар (только для администраторов)
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d/", productID), nil, nil)
}

// ListAdminOrders возвращает все заказы магазина
func (c *Client) ListAdminOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/admin/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus изменяет статус заказа
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if !ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/orders/%s/", orderID), body, nil)
}

// ListUsers возвращает список пользователей (только для суперпользователей)
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/admin/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Роли пользователя, доступные для изменения
const (
	RoleStaff     = "is_staff"
	RoleSuperuser = "is_superuser"
)

// UpdateUserRole включает или выключает роль пользователя
func (c *Client) UpdateUserRole(ctx context.Context, userID int64, role string, enabled bool) error {
	if role != RoleStaff && role != RoleSuperuser {
		return fmt.Errorf("invalid user role: %s", role)
	}
	body := map[string]bool{role: enabled}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d/", userID), body, nil)
}
