package cart

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abdulrehman1203/invera-tech-store/internal/api"
	pkgerrors "github.com/Abdulrehman1203/invera-tech-store/pkg/errors"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/logger"
)

type fakeCartAPI struct {
	cart  *api.Cart
	err   error
	calls int32

	block   chan struct{}
	started chan struct{}
}

func (f *fakeCartAPI) GetCart(ctx context.Context) (*api.Cart, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.cart, f.err
}

func staticToken(token string) api.TokenProvider {
	return func() string { return token }
}

func TestRefresh(t *testing.T) {
	t.Run("counts distinct lines", func(t *testing.T) {
		// Две позиции с количеством 2 и 1: счетчик равен 2, а не 3
		fake := &fakeCartAPI{cart: &api.Cart{Items: []api.CartItem{
			{ID: 1, Quantity: 2},
			{ID: 2, Quantity: 1},
		}}}
		cache := NewSummaryCache(fake, staticToken("token"), logger.NewNop())

		cache.Refresh(context.Background())

		assert.Equal(t, 2, cache.Count())
	})

	t.Run("no token skips network call", func(t *testing.T) {
		fake := &fakeCartAPI{cart: &api.Cart{Items: []api.CartItem{{ID: 1}}}}
		cache := NewSummaryCache(fake, staticToken(""), logger.NewNop())
		cache.SetCount(5)

		cache.Refresh(context.Background())

		assert.Equal(t, 0, cache.Count())
		assert.Equal(t, int32(0), atomic.LoadInt32(&fake.calls))
	})

	t.Run("error resets to zero", func(t *testing.T) {
		fake := &fakeCartAPI{err: pkgerrors.New(pkgerrors.ErrUnavailable, "server error")}
		cache := NewSummaryCache(fake, staticToken("token"), logger.NewNop())
		cache.SetCount(3)

		cache.Refresh(context.Background())

		assert.Equal(t, 0, cache.Count())
	})

	t.Run("concurrent refresh fetches once", func(t *testing.T) {
		fake := &fakeCartAPI{
			cart:    &api.Cart{Items: []api.CartItem{{ID: 1}}},
			block:   make(chan struct{}),
			started: make(chan struct{}, 1),
		}
		cache := NewSummaryCache(fake, staticToken("token"), logger.NewNop())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Refresh(context.Background())
		}()

		// Дожидаемся, пока первый запрос окажется в полете
		<-fake.started
		assert.True(t, cache.IsFetching())

		// Повторные вызовы возвращаются сразу, без второго запроса
		cache.Refresh(context.Background())
		cache.Refresh(context.Background())
		assert.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))

		close(fake.block)
		wg.Wait()

		assert.False(t, cache.IsFetching())
		assert.Equal(t, 1, cache.Count())
	})

	t.Run("empty cart", func(t *testing.T) {
		fake := &fakeCartAPI{cart: &api.Cart{}}
		cache := NewSummaryCache(fake, staticToken("token"), logger.NewNop())
		cache.SetCount(4)

		cache.Refresh(context.Background())

		assert.Equal(t, 0, cache.Count())
	})
}

func TestSetCount(t *testing.T) {
	cache := NewSummaryCache(&fakeCartAPI{}, staticToken(""), logger.NewNop())
	cache.SetCount(7)
	assert.Equal(t, 7, cache.Count())
}
