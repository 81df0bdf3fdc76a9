package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urban-heat/uhi-monitor-api/internal/catalog"
	"github.com/urban-heat/uhi-monitor-api/internal/delivery"
)

const dateLayout = "2006-01-02"

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

type searchLocationRequest struct {
	Query string `json:"query"`
}

func (s *Server) searchLocation(c *gin.Context) {
	var req searchLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		errorResponse(c, http.StatusBadRequest, "Query parameter is required")
		return
	}

	location, err := s.geocoder.Search(query)
	if err != nil {
		fmt.Printf("Error searching location %q: %v\n", query, err)
		errorResponse(c, http.StatusInternalServerError, "Internal server error during location search")
		return
	}
	if location == nil {
		errorResponse(c, http.StatusNotFound, fmt.Sprintf("Location %q not found. Please try a different search.", query))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "location": location})
}

type reverseGeocodeRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (s *Server) reverseGeocode(c *gin.Context) {
	var req reverseGeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Lat == nil || req.Lon == nil {
		errorResponse(c, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}

	location, err := s.geocoder.Reverse(*req.Lat, *req.Lon)
	if err != nil {
		fmt.Printf("Error reverse geocoding (%f, %f): %v\n", *req.Lat, *req.Lon, err)
		errorResponse(c, http.StatusInternalServerError, "Internal server error during reverse geocoding")
		return
	}
	if location == nil {
		errorResponse(c, http.StatusNotFound, "Could not reverse geocode coordinates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "location": location})
}

type analyzeRequest struct {
	BBox          []float64 `json:"bbox"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	MaxCloudCover *float64  `json:"max_cloud_cover"`
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.BBox) != 4 {
		errorResponse(c, http.StatusBadRequest, "Valid bounding box is required")
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		errorResponse(c, http.StatusBadRequest, "Start date and end date are required")
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Start date must be formatted YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "End date must be formatted YYYY-MM-DD")
		return
	}

	maxCloudCover := 15.0
	if req.MaxCloudCover != nil {
		maxCloudCover = *req.MaxCloudCover
	}

	bbox := [4]float64{req.BBox[0], req.BBox[1], req.BBox[2], req.BBox[3]}
	fmt.Printf("Analyzing region: bbox=%v, dates=%s to %s\n", bbox, req.StartDate, req.EndDate)

	result, err := delivery.AnalyzeRegion(s.fetcher, bbox, startDate, endDate, maxCloudCover)
	if err != nil {
		if errors.Is(err, catalog.ErrNoScenes) {
			errorResponse(c, http.StatusNotFound, "No suitable satellite data found. Try increasing cloud cover tolerance or expanding date range.")
			return
		}
		fmt.Printf("Error in analyze: %v\n", err)
		errorResponse(c, http.StatusInternalServerError, fmt.Sprintf("Analysis failed: %s", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}
