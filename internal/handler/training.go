package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rokibulparves/sobol/internal/service"
)

func (h *Handler) Today(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	content, err := h.training.Today(c.Request.Context(), userID)
	if err != nil {
		h.trainingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dayResponse(content))
}

func (h *Handler) Day(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day"})
		return
	}
	content, err := h.training.Day(c.Request.Context(), userID, day)
	if err != nil {
		h.trainingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dayResponse(content))
}

func (h *Handler) CompleteDay(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var input struct {
		Day int `json:"day"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Day < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	progress, err := h.training.Complete(c.Request.Context(), userID, input.Day)
	if err != nil {
		h.trainingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"current_day":        progress.CurrentDay,
		"last_completed_day": progress.LastCompletedDay,
	})
}

// UploadPoster attaches a poster image to a day's video.
func (h *Handler) UploadPoster(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day"})
		return
	}
	fileHeader, err := c.FormFile("poster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing poster file"})
		return
	}
	posterURL, thumbURL, err := h.uploads.UploadPoster(c.Request.Context(), day, fileHeader)
	if err != nil {
		h.log.Error().Err(err).Int("day", day).Msg("poster upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"poster_url": posterURL, "poster_thumb_url": thumbURL})
}

func (h *Handler) trainingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPremiumRequired):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "This video is available for premium users only"})
	case errors.Is(err, service.ErrDayLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "Day not unlocked yet"})
	case errors.Is(err, service.ErrNotCurrentDay):
		c.JSON(http.StatusConflict, gin.H{"error": "Only the current day can be completed"})
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
	default:
		h.log.Error().Err(err).Msg("training request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func dayResponse(content *service.DayContent) gin.H {
	return gin.H{
		"day_number":         content.Video.DayNumber,
		"title":              content.Video.Title,
		"description":        content.Video.Description,
		"video_url":          content.VideoURL,
		"poster_url":         content.Video.PosterURL,
		"poster_thumb_url":   content.Video.PosterThumb,
		"current_day":        content.Progress.CurrentDay,
		"last_completed_day": content.Progress.LastCompletedDay,
		"total_days":         content.TotalDays,
	}
}
