package services

import (
	"context"
	"log"

	"github.com/senyabanana/sealed-tender/internal/events"
)

func loggerOrDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}

func publisherOrDefault(p events.Publisher, logger *log.Logger) events.Publisher {
	if p == nil {
		return events.LogPublisher{Logger: logger}
	}
	return p
}

// publish отправляет событие; сбой публикации не откатывает уже принятую операцию.
func publish(ctx context.Context, p events.Publisher, logger *log.Logger, key string, payload any) {
	if err := p.Publish(ctx, key, payload); err != nil {
		logger.Printf("failed to publish %s: %v", key, err)
	}
}
