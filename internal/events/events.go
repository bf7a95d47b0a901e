// Package events публикует события жизненного цикла тендеров.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Publisher - получатель событий жизненного цикла.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// LogPublisher пишет события в лог, когда брокер не настроен.
type LogPublisher struct {
	Logger *log.Logger
}

func (p LogPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	if p.Logger != nil {
		p.Logger.Printf("event %s %s", routingKey, body)
	}
	return nil
}

// Event - записанное событие.
type Event struct {
	RoutingKey string
	Body       json.RawMessage
}

// Recorder запоминает события в памяти.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	r.mu.Lock()
	r.events = append(r.events, Event{RoutingKey: routingKey, Body: body})
	r.mu.Unlock()
	return nil
}

// Events возвращает копию записанных событий.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Keys возвращает ключи маршрутизации в порядке публикации.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.events))
	for _, e := range r.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}
