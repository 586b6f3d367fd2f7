package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/gin-gonic/gin"
)

type weatherUsecaser interface {
	GetWeather(ctx context.Context, userID int64, city string) (*domain.WeatherReport, error)
	History(ctx context.Context, userID int64) ([]domain.SearchHistory, error)
	DeleteHistory(ctx context.Context, recordID, userID int64) error
}

type WeatherHandler struct {
	weatherUsecase weatherUsecaser
	logger         *slog.Logger
}

func NewWeatherHandler(weatherUsecase weatherUsecaser, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{
		weatherUsecase: weatherUsecase,
		logger:         logger.With("component", "weather_handler"),
	}
}

type historyItemResponse struct {
	ID           int64     `json:"id"`
	CityName     string    `json:"city_name"`
	SearchCount  int       `json:"search_count"`
	LastSearched time.Time `json:"last_searched"`
}

// GET /weather/:city
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	city := c.Param("city")
	if len(city) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCityTooShort})
		return
	}

	userID := c.GetInt64("userID")
	report, err := h.weatherUsecase.GetWeather(c.Request.Context(), userID, city)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLocationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCityNotFound})
		case errors.Is(err, domain.ErrWeatherUpstream):
			h.logger.ErrorContext(c.Request.Context(), "weather upstream", "city", city, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": errWeatherUnavailable})
		default:
			h.logger.ErrorContext(c.Request.Context(), "get weather", "city", city, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// GET /history
func (h *WeatherHandler) History(c *gin.Context) {
	userID := c.GetInt64("userID")

	items, err := h.weatherUsecase.History(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := make([]historyItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, historyItemResponse{
			ID:           item.ID,
			CityName:     item.CityName,
			SearchCount:  item.SearchCount,
			LastSearched: item.LastSearched,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /history/:id
func (h *WeatherHandler) DeleteHistory(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errHistoryNotFound})
		return
	}

	userID := c.GetInt64("userID")
	if err := h.weatherUsecase.DeleteHistory(c.Request.Context(), recordID, userID); err != nil {
		if errors.Is(err, domain.ErrHistoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errHistoryNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete history", "record_id", recordID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}
