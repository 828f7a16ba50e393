package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mangrove-be/models"
	"mangrove-be/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportController serves report submission, listing and review.
type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// CreateReport handles a new report submission. Any status in the body is
// ignored, reports always start pending.
func (rc *ReportController) CreateReport(c *gin.Context) {
	var input struct {
		UserID      string      `json:"userId"`
		Lat         *coordinate `json:"lat" binding:"required"`
		Lng         *coordinate `json:"lng" binding:"required"`
		PhotoURL    string      `json:"photoUrl" binding:"omitempty,url"`
		Category    string      `json:"category" binding:"required,max=100"`
		Description string      `json:"description" binding:"max=2000"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, invalidInput(err))
		return
	}

	var userID *primitive.ObjectID
	if input.UserID != "" {
		id, err := parseObjectID(input.UserID, "user")
		if err != nil {
			respondError(c, err)
			return
		}
		userID = &id
	}

	report, err := rc.reports.Submit(c.Request.Context(), services.SubmitReportInput{
		UserID:      userID,
		Lat:         float64(*input.Lat),
		Lng:         float64(*input.Lng),
		PhotoURL:    input.PhotoURL,
		Category:    input.Category,
		Description: input.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "report": report})
}

// GetAllReports returns every report with its user resolved, newest first.
// Optional status, category and userId query parameters narrow the list.
func (rc *ReportController) GetAllReports(c *gin.Context) {
	filter := models.ReportFilter{
		Status:   models.ReportStatus(c.Query("status")),
		Category: c.Query("category"),
	}
	if filter.Status == "all" {
		filter.Status = ""
	}
	if filter.Category == "all" {
		filter.Category = ""
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := parseObjectID(raw, "user")
		if err != nil {
			respondError(c, err)
			return
		}
		filter.UserID = &id
	}

	reports, err := rc.reports.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetReport retrieves a report by its ID
func (rc *ReportController) GetReport(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"), "report")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := rc.reports.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// UpdateReport applies a reviewer's status change. Only status, reviewer,
// category and description are accepted; any other field fails the request.
func (rc *ReportController) UpdateReport(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"), "report")
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Status      string  `json:"status" binding:"required,oneof=pending in-progress resolved rejected"`
		Reviewer    string  `json:"reviewer" binding:"max=100"`
		Category    *string `json:"category" binding:"omitempty,max=100"`
		Description *string `json:"description" binding:"omitempty,max=2000"`
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is required")
		}
		respondError(c, invalidInput(err))
		return
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		respondError(c, invalidInput(errors.New("request body must contain a single JSON object")))
		return
	}
	if err := binding.Validator.ValidateStruct(&input); err != nil {
		respondError(c, invalidInput(err))
		return
	}

	result, err := rc.reports.UpdateStatus(c.Request.Context(), id, services.StatusUpdate{
		Status:      models.ReportStatus(input.Status),
		Reviewer:    input.Reviewer,
		Category:    input.Category,
		Description: input.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  result.Report,
		"log":     result.Log,
	})
}

// GetReportAuditLogs lists the status changes recorded for a report.
func (rc *ReportController) GetReportAuditLogs(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"), "report")
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := rc.reports.AuditTrail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "logs": entries})
}
