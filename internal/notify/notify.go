package notify

import (
	"sync"
	"time"
)

// DefaultDismissDelay задает время автоскрытия уведомления
const DefaultDismissDelay = 3000 * time.Millisecond

// Kind представляет вид уведомления
type Kind string

// Виды уведомлений
const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// Notification представляет текущее уведомление
type Notification struct {
	Visible bool
	Message string
	Kind    Kind
}

// Channel хранит одно текущее уведомление с автоскрытием.
// Очереди нет: новое уведомление всегда вытесняет предыдущее,
// и его таймер отменяет ранее запланированное скрытие.
type Channel struct {
	mu      sync.Mutex
	current Notification
	timer   *time.Timer
	gen     uint64
	delay   time.Duration
}

// NewChannel создает новый канал уведомлений со стандартной задержкой
func NewChannel() *Channel {
	return NewChannelWithDelay(DefaultDismissDelay)
}

// NewChannelWithDelay создает канал с заданной задержкой автоскрытия
func NewChannelWithDelay(delay time.Duration) *Channel {
	return &Channel{delay: delay}
}

// Notify показывает уведомление и планирует его автоскрытие.
// Таймер предыдущего уведомления отменяется: задержка всегда
// отсчитывается от последнего вызова.
func (c *Channel) Notify(message string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}

	c.current = Notification{Visible: true, Message: message, Kind: kind}
	c.gen++

	// Поколение защищает от срабатывания уже отмененного таймера
	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.current = Notification{}
		}
	})
}

// Dismiss немедленно скрывает уведомление и отменяет таймер
func (c *Channel) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.current = Notification{}
}

// Current возвращает снимок текущего уведомления
func (c *Channel) Current() Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
