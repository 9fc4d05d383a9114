package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers all HTTP routes on a fresh gin engine
func SetupRoutes(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		trips := v1.Group("/trips/:tripId")
		{
			trips.POST("/parse-email", h.ParseEmail)
			trips.GET("/itinerary", h.GetItinerary)
			trips.POST("/notes", h.CreateNote)
			trips.GET("/notes", h.ListNotes)
			trips.DELETE("/notes/:noteId", h.DeleteNote)
		}
	}

	return router
}
