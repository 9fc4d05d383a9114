package usecase

import (
	"errors"
	"strings"
	"time"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/pkg/bookingparse"
	"tripfolio-service/pkg/emailtext"
	"tripfolio-service/pkg/logger"
	"tripfolio-service/pkg/metrics"
)

var (
	// ErrEmptyInput means both subject and body normalized to nothing.
	ErrEmptyInput = errors.New("empty input")

	// ErrUnclassified means no category cleared the confidence threshold.
	// This is an expected frequent outcome, not a system fault.
	ErrUnclassified = errors.New("no booking category detected")
)

// ParsePipeline runs normalized email text through classification, field
// extraction and booking normalization. It is stateless: concurrent runs
// share nothing.
type ParsePipeline struct {
	threshold float64
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewParsePipeline creates a parse pipeline. threshold <= 0 selects the
// classifier default.
func NewParsePipeline(threshold float64, m *metrics.Metrics, log logger.Logger) *ParsePipeline {
	return &ParsePipeline{
		threshold: threshold,
		metrics:   m,
		logger:    log,
	}
}

// Run parses one email into a Booking. Returns ErrEmptyInput or
// ErrUnclassified when no booking can be produced; a partially-extracted
// booking comes back flagged low confidence rather than as an error.
func (p *ParsePipeline) Run(subject, body string) (*entity.Booking, error) {
	started := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.ParseTime.Observe(time.Since(started).Seconds())
		}
	}()

	text := emailtext.Normalize(subject, body)
	if strings.TrimSpace(text) == "" {
		p.count("empty_input")
		return nil, ErrEmptyInput
	}

	classification := bookingparse.Classify(text, p.threshold)
	if classification.Category == entity.CategoryUnknown {
		p.logger.Debug("Email not classified", "score", classification.Score)
		p.count("unclassified")
		return nil, ErrUnclassified
	}

	extraction := bookingparse.Extract(text, classification.Category)
	if extraction.Empty() {
		p.logger.Debug("No fields extracted for classified category",
			"category", classification.Category)
		p.count("unclassified")
		return nil, ErrUnclassified
	}

	booking := bookingparse.BuildBooking(classification, extraction)
	if booking.Category == entity.CategoryUnknown {
		p.count("unclassified")
		return nil, ErrUnclassified
	}

	p.logger.Info("Email parsed",
		"category", booking.Category,
		"confidence", booking.Confidence,
		"lowConfidence", booking.LowConfidence)
	p.count("parsed")
	return booking, nil
}

func (p *ParsePipeline) count(outcome string) {
	if p.metrics != nil {
		p.metrics.EmailsParsed.WithLabelValues(outcome).Inc()
	}
}
