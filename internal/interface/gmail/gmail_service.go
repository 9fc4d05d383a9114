package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
	"tripfolio-service/pkg/logger"
)

// tripTagRe pulls the trip ID out of a plus-addressed recipient, e.g.
// "inbox+a1b2c3@tripfolio.app" routes to trip a1b2c3.
var tripTagRe = regexp.MustCompile(`\+([A-Za-z0-9-]+)@`)

// GmailService polls the ingest mailbox for forwarded booking emails
type GmailService struct {
	gmailService *gmail.Service
	emailRepo    repository.EmailRepository
	logger       logger.Logger
	pollInterval time.Duration
}

// NewGmailService creates a new Gmail service
func NewGmailService(ctx context.Context, tokenSource oauth2.TokenSource, emailRepo repository.EmailRepository, logger logger.Logger, pollInterval time.Duration) (*GmailService, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailService{
		gmailService: service,
		emailRepo:    emailRepo,
		logger:       logger,
		pollInterval: pollInterval,
	}, nil
}

// FetchEmails fetches new emails from the ingest mailbox
func (s *GmailService) FetchEmails(ctx context.Context) error {
	lastEmail, _ := s.emailRepo.GetLastEmail(ctx)
	var fetchFrom time.Time
	var hasLastEmail bool

	if lastEmail != nil && !lastEmail.ReceivedAt.IsZero() {
		fetchFrom = lastEmail.ReceivedAt
		hasLastEmail = true
	} else {
		// Default starting point
		fetchFrom = time.Now().AddDate(0, -1, 0)
	}

	queryDate := fetchFrom
	if hasLastEmail {
		// Go back 3 days to catch any emails we might have missed
		queryDate = fetchFrom.AddDate(0, 0, -3)
	}

	query := fmt.Sprintf("after:%s", queryDate.Format("2006/01/02"))
	s.logger.Debug("Querying mailbox", "query", query)

	resp, err := s.gmailService.Users.Messages.List("me").Q(query).Do()
	if err != nil {
		s.logger.Error("Failed to list messages", "error", err)
		return err
	}

	if len(resp.Messages) == 0 {
		return nil
	}

	emailIDs := make([]string, len(resp.Messages))
	for i, msg := range resp.Messages {
		emailIDs[i] = msg.Id
	}

	existingEmails, err := s.emailRepo.FindByEmailIDs(ctx, emailIDs)
	if err != nil {
		s.logger.Error("Failed to batch check existing emails", "error", err)
		existingEmails = make(map[string]*entity.InboundEmail)
	}

	newEmailsCount := 0

	for _, msg := range resp.Messages {
		// Skip if already in database
		if _, exists := existingEmails[msg.Id]; exists {
			continue
		}

		fullMsg, err := s.gmailService.Users.Messages.Get("me", msg.Id).Do()
		if err != nil {
			s.logger.Error("Failed to get message", "emailID", msg.Id, "error", err)
			continue
		}

		messageTime := time.Unix(0, fullMsg.InternalDate*int64(time.Millisecond))
		if hasLastEmail && !messageTime.After(fetchFrom) {
			continue
		}

		email, err := s.convertToEmail(fullMsg)
		if err != nil {
			s.logger.Error("Failed to convert message", "emailID", msg.Id, "error", err)
			continue
		}

		if email.TripID == "" {
			s.logger.Debug("Email has no trip tag, skipping",
				"emailID", email.EmailID,
				"to", email.To)
			continue
		}

		s.logger.Info("Storing new email",
			"subject", email.Subject,
			"emailID", email.EmailID,
			"tripId", email.TripID)

		if err := s.emailRepo.Save(ctx, email); err != nil {
			s.logger.Error("Failed to save email", "emailID", msg.Id, "error", err)
			continue
		}

		newEmailsCount++
	}

	s.logger.Info("Email fetch completed",
		"totalFromMailbox", len(resp.Messages),
		"newEmails", newEmailsCount)

	return nil
}

// StartPolling starts polling the mailbox for new emails
func (s *GmailService) StartPolling(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Mailbox polling stopped")
			return
		case <-ticker.C:
			if err := s.FetchEmails(ctx); err != nil {
				s.logger.Error("Error polling mailbox", "error", err)
			}
		}
	}
}

// convertToEmail converts a Gmail message to our domain entity
func (s *GmailService) convertToEmail(msg *gmail.Message) (*entity.InboundEmail, error) {
	email := &entity.InboundEmail{
		EmailID: msg.Id,
	}

	// Extract header information
	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "From":
			email.From = header.Value
		case "To":
			email.To = header.Value
		case "Subject":
			email.Subject = header.Value
		}
	}

	if m := tripTagRe.FindStringSubmatch(email.To); m != nil {
		email.TripID = m[1]
	}

	// Extract message body
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(msg.Payload.Body.Data)
		if err != nil {
			return nil, err
		}
		email.Body = string(data)
	}

	// Handle multipart messages
	for _, part := range msg.Payload.Parts {
		if part.Body == nil || part.Body.Data == "" {
			continue
		}
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			continue
		}
		switch part.MimeType {
		case "text/plain":
			email.Body = string(data)
		case "text/html":
			email.HTMLBody = string(data)
		}
	}

	email.ReceivedAt = time.Unix(0, msg.InternalDate*int64(time.Millisecond))

	return email, nil
}
