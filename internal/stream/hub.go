// Package stream реализует контракт живых снимков коллекций: подписчик
// получает полный снимок (не дельту) после каждого изменения и хэндл
// отмены подписки. Доставка каждому подписчику сериализована через его
// собственный канал, поэтому пересчёт статистики никогда не реентерабелен.
package stream

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Коды ошибок подписки, видимые подписчику.
const (
	ErrCodeUpstream = "upstream_failure"
	ErrCodeClosed   = "stream_closed"
)

// Error — структурированная ошибка канала подписки.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("stream error %s: %s", e.Code, e.Message)
}

// UpdateFunc вызывается на каждый новый снимок коллекции.
type UpdateFunc[T any] func(items []T)

// ErrorFunc вызывается при сбое источника данных.
type ErrorFunc func(err *Error)

type event[T any] struct {
	items []T
	err   *Error
}

type subscriber[T any] struct {
	ch   chan event[T]
	done chan struct{}
}

// Hub раздаёт снимки коллекции подписчикам. Паблишеры сериализуются
// на стороне хаба; медленный подписчик получает только последний снимок
// (промежуточные вытесняются, так как каждый снимок замещает предыдущий).
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[int64]*subscriber[T]
	nextID int64
	closed bool
	logger *log.Entry
}

// NewHub создаёт хаб снимков для одного типа сущности.
func NewHub[T any](logger *log.Entry) *Hub[T] {
	if logger == nil {
		logger = log.WithField("component", "stream-hub")
	}
	return &Hub[T]{
		subs:   make(map[int64]*subscriber[T]),
		logger: logger,
	}
}

// Subscribe регистрирует подписчика и возвращает функцию отмены.
// Колбэки вызываются из выделенной горутины подписчика строго
// последовательно; onError может быть nil.
func (h *Hub[T]) Subscribe(onUpdate UpdateFunc[T], onError ErrorFunc) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	sub := &subscriber[T]{
		ch:   make(chan event[T], 1),
		done: make(chan struct{}),
	}
	h.subs[id] = sub

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case ev := <-sub.ch:
				if ev.err != nil {
					if onError != nil {
						onError(ev.err)
					}
					continue
				}
				if onUpdate != nil {
					onUpdate(ev.items)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.done)
		})
	}
}

// Publish рассылает новый снимок всем подписчикам. Снимок копируется,
// чтобы последующие мутации источника не были видны подписчикам.
func (h *Hub[T]) Publish(items []T) {
	snapshot := make([]T, len(items))
	copy(snapshot, items)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, sub := range h.subs {
		h.offer(sub, event[T]{items: snapshot})
	}
}

// Fail доставляет подписчикам структурированную ошибку источника.
func (h *Hub[T]) Fail(code, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.logger.WithFields(log.Fields{
		"code":    code,
		"message": message,
	}).Warn("stream failure delivered to subscribers")
	for _, sub := range h.subs {
		h.offer(sub, event[T]{err: &Error{Code: code, Message: message}})
	}
}

// Close останавливает все подписки; дальнейшие Publish игнорируются.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.done)
		delete(h.subs, id)
	}
}

// SubscriberCount возвращает число активных подписчиков (для метрик).
func (h *Hub[T]) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// offer кладёт событие в канал подписчика, вытесняя непрочитанное:
// актуален только последний снимок.
func (h *Hub[T]) offer(sub *subscriber[T], ev event[T]) {
	select {
	case sub.ch <- ev:
		return
	default:
	}
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- ev:
	default:
	}
}
