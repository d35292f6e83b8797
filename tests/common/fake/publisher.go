//go:build unit

package fake

import (
	"context"
	"sync"
)

type PublishedEvent struct {
	EventType string
	Payload   any
}

type EventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent

	FailNext error // returned by the next Publish call, then cleared
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

func (p *EventPublisher) Publish(_ context.Context, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNext != nil {
		err := p.FailNext
		p.FailNext = nil
		return err
	}
	p.events = append(p.events, PublishedEvent{EventType: eventType, Payload: payload})
	return nil
}

func (p *EventPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedEvent(nil), p.events...)
}

func (p *EventPublisher) EventsOfType(eventType string) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []PublishedEvent
	for _, ev := range p.events {
		if ev.EventType == eventType {
			result = append(result, ev)
		}
	}
	return result
}
