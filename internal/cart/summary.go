package cart

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Abdulrehman1203/invera-tech-store/internal/api"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/logger"
)

// CartAPI описывает используемую часть API клиента
type CartAPI interface {
	GetCart(ctx context.Context) (*api.Cart, error)
}

// SummaryCache хранит количество различных позиций корзины для бейджа.
// Счетчик обновляется по запросу и никогда не считается критичным:
// любая ошибка обнуляет его молча.
type SummaryCache struct {
	mu       sync.Mutex
	count    int
	fetching int32

	cartAPI CartAPI
	tokens  api.TokenProvider
	logger  logger.Logger
}

// NewSummaryCache создает новый кэш счетчика корзины
func NewSummaryCache(cartAPI CartAPI, tokens api.TokenProvider, log logger.Logger) *SummaryCache {
	return &SummaryCache{
		cartAPI: cartAPI,
		tokens:  tokens,
		logger:  log,
	}
}

// Refresh обновляет счетчик позиций корзины.
// Без токена сетевой вызов не выполняется и счетчик сбрасывается в 0.
// Пока один запрос в полете, повторные вызовы немедленно возвращаются
// без эффекта. Ошибки проглатываются: счетчик бейджа не критичен.
func (c *SummaryCache) Refresh(ctx context.Context) {
	if c.tokens() == "" {
		c.SetCount(0)
		return
	}

	// Не допускаем более одного запроса в полете
	if !atomic.CompareAndSwapInt32(&c.fetching, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&c.fetching, 0)

	cart, err := c.cartAPI.GetCart(ctx)
	if err != nil {
		c.logger.Debug("не удалось обновить счетчик корзины", logger.Error(err))
		c.SetCount(0)
		return
	}

	// Количество различных позиций, а не суммарное количество единиц
	c.SetCount(len(cart.Items))
}

// SetCount напрямую устанавливает счетчик. Используется командами,
// которые уже знают точное количество после изменения корзины,
// чтобы не делать лишний запрос.
func (c *SummaryCache) SetCount(n int) {
	c.mu.Lock()
	c.count = n
	c.mu.Unlock()
}

// Count возвращает текущее значение счетчика
func (c *SummaryCache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// IsFetching сообщает, выполняется ли сейчас обновление
func (c *SummaryCache) IsFetching() bool {
	return atomic.LoadInt32(&c.fetching) == 1
}
