package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
	"tripfolio-service/internal/usecase"
	"tripfolio-service/pkg/logger"
)

// Handler holds the API dependencies
type Handler struct {
	pipeline      *usecase.ParsePipeline
	merger        *usecase.BookingMerger
	itineraryRepo repository.ItineraryRepository
	noteRepo      repository.NoteRepository
	logger        logger.Logger
}

// NewHandler creates the API handler
func NewHandler(
	pipeline *usecase.ParsePipeline,
	merger *usecase.BookingMerger,
	itineraryRepo repository.ItineraryRepository,
	noteRepo repository.NoteRepository,
	logger logger.Logger,
) *Handler {
	return &Handler{
		pipeline:      pipeline,
		merger:        merger,
		itineraryRepo: itineraryRepo,
		noteRepo:      noteRepo,
		logger:        logger,
	}
}

type parseEmailRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ParseEmail runs one email through the parse pipeline and merges the
// resulting booking into the trip's itinerary.
func (h *Handler) ParseEmail(c *gin.Context) {
	tripID := c.Param("tripId")

	var req parseEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	booking, err := h.pipeline.Run(req.Subject, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "empty-input"})
		case errors.Is(err, usecase.ErrUnclassified):
			// Expected frequent outcome, not an error
			c.JSON(http.StatusOK, gin.H{"success": false, "reason": "unclassified"})
		default:
			h.logger.Error("Parse pipeline failed", "tripId", tripID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "parse failed"})
		}
		return
	}

	itinerary, inserted, err := h.merger.Merge(c.Request.Context(), tripID, booking)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"success":   false,
				"reason":    "conflict",
				"retryable": true,
			})
			return
		}
		h.logger.Error("Failed to merge booking", "tripId", tripID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "merge failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"booking":  booking,
		"inserted": inserted,
		"events":   len(itinerary.Events),
	})
}

// GetItinerary returns the trip's ordered event list
func (h *Handler) GetItinerary(c *gin.Context) {
	tripID := c.Param("tripId")

	itinerary, err := h.itineraryRepo.GetByTripID(c.Request.Context(), tripID)
	if err != nil {
		h.logger.Error("Failed to load itinerary", "tripId", tripID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load itinerary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "itinerary": itinerary})
}

type createNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateNote stores a trip note. The requesting user's identity comes
// from the authentication collaborator upstream and is trusted as-is.
func (h *Handler) CreateNote(c *gin.Context) {
	tripID := c.Param("tripId")

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	note := &entity.TripNote{
		TripID:   tripID,
		AuthorID: c.GetHeader("X-User-ID"),
		Text:     req.Text,
	}

	if err := h.noteRepo.Save(c.Request.Context(), note); err != nil {
		h.logger.Error("Failed to save note", "tripId", tripID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save note"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "note": note})
}

// ListNotes returns the trip's notes, newest first
func (h *Handler) ListNotes(c *gin.Context) {
	tripID := c.Param("tripId")

	notes, err := h.noteRepo.ListByTripID(c.Request.Context(), tripID)
	if err != nil {
		h.logger.Error("Failed to list notes", "tripId", tripID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "notes": notes})
}

// DeleteNote removes a note from a trip
func (h *Handler) DeleteNote(c *gin.Context) {
	tripID := c.Param("tripId")
	noteID := c.Param("noteId")

	if err := h.noteRepo.Delete(c.Request.Context(), tripID, noteID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "note not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
