package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urban-heat/uhi-monitor-api/internal/delivery"
	"github.com/urban-heat/uhi-monitor-api/internal/geocode"
)

const serviceVersion = "2.0.0"

// Geocoder resolves place names and coordinates. geocode.Client satisfies
// it.
type Geocoder interface {
	Search(query string) (*geocode.Location, error)
	Reverse(lat, lon float64) (*geocode.Location, error)
}

// Server wires the HTTP surface to its collaborators.
type Server struct {
	geocoder Geocoder
	fetcher  delivery.SceneFetcher
}

func NewServer(geocoder Geocoder, fetcher delivery.SceneFetcher) *Server {
	return &Server{geocoder: geocoder, fetcher: fetcher}
}

// Router builds the gin engine with CORS enabled for the dashboard.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/search-location", s.searchLocation)
		api.POST("/reverse-geocode", s.reverseGeocode)
		api.POST("/analyze", s.analyze)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "UHI-Monitor API",
		"version": serviceVersion,
	})
}
