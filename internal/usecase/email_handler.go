package usecase

import (
	"context"

	"tripfolio-service/internal/domain/entity"
)

// EmailHandler defines the interface for inbound email handlers
type EmailHandler interface {
	// CanHandle determines if this handler can process the given email subject
	CanHandle(subject string) bool

	// Process parses the email and applies its result
	Process(ctx context.Context, email *entity.InboundEmail) error
}

// SubjectRouter routes inbound emails to the appropriate handler based on
// subject
type SubjectRouter interface {
	// Register registers a handler for specific subject patterns
	Register(handler EmailHandler)

	// GetHandler returns the appropriate handler for a given subject
	GetHandler(subject string) EmailHandler
}
