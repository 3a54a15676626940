package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}

// parseCriteria reads product, size, start_date and end_date.
func parseCriteria(c *gin.Context) (domain.Criteria, error) {
	return domain.NewCriteria(c.Query("product"), c.Query("size"), c.Query("start_date"), c.Query("end_date"))
}

func parseMetric(c *gin.Context) (domain.Metric, error) {
	metric, ok := domain.ParseTrendMetric(c.Query("metric"))
	if !ok {
		return "", fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidFilter, c.Query("metric"))
	}
	return metric, nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidSheetFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
