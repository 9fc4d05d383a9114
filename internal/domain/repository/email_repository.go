package repository

import (
	"context"
	"time"

	"tripfolio-service/internal/domain/entity"
)

// EmailRepository defines the interface for inbound email persistence
type EmailRepository interface {
	Save(ctx context.Context, email *entity.InboundEmail) error
	FindByEmailID(ctx context.Context, emailID string) (*entity.InboundEmail, error)
	FindByEmailIDs(ctx context.Context, emailIDs []string) (map[string]*entity.InboundEmail, error)
	FindUnprocessed(ctx context.Context, limit int) ([]*entity.InboundEmail, error)
	GetLastEmail(ctx context.Context) (*entity.InboundEmail, error)
	UpdateStatusByEmailID(ctx context.Context, emailID string, status string, startedAt time.Time) error
	MarkAsProcessedByEmailID(ctx context.Context, emailID, status, processorType, errorDetail string, extractedData map[string]interface{}) error
	ResetProcessingEmails(ctx context.Context) error
}
