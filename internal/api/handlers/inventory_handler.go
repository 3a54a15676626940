package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/andresuchdata/inventory-dashboard/internal/analytics"
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/service"
	"github.com/andresuchdata/inventory-dashboard/internal/source"
	"github.com/gin-gonic/gin"
)

const defaultMaxUploadBytes = 32 << 20

type InventoryHandler struct {
	service        *service.InventoryService
	maxUploadBytes int64
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service, maxUploadBytes: defaultMaxUploadBytes}
}

func (h *InventoryHandler) GetDashboard(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondError(c, err, "invalid filter")
		return
	}
	metric, err := parseMetric(c)
	if err != nil {
		respondError(c, err, "invalid metric")
		return
	}

	dash, err := h.service.GetDashboard(c.Request.Context(), analytics.Query{
		Criteria: criteria,
		Metric:   metric,
		Limit:    parsePositiveIntWithDefault(c.Query("limit"), 0),
	})
	if err != nil {
		respondError(c, err, "failed to fetch dashboard")
		return
	}

	c.JSON(http.StatusOK, dash)
}

func (h *InventoryHandler) GetSummary(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondError(c, err, "invalid filter")
		return
	}

	totals, err := h.service.GetTotals(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err, "failed to fetch summary")
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *InventoryHandler) GetTrend(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondError(c, err, "invalid filter")
		return
	}
	metric, err := parseMetric(c)
	if err != nil {
		respondError(c, err, "invalid metric")
		return
	}

	points, err := h.service.GetTrend(c.Request.Context(), criteria, metric)
	if err != nil {
		respondError(c, err, "failed to fetch trend")
		return
	}

	c.JSON(http.StatusOK, gin.H{"metric": metric, "points": points})
}

func (h *InventoryHandler) GetMovement(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondError(c, err, "invalid filter")
		return
	}

	points, err := h.service.GetMovement(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err, "failed to fetch movement")
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}

func (h *InventoryHandler) GetRanking(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondError(c, err, "invalid filter")
		return
	}

	ranking, err := h.service.GetRanking(c.Request.Context(), criteria, parsePositiveIntWithDefault(c.Query("limit"), 0))
	if err != nil {
		respondError(c, err, "failed to fetch ranking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ranking})
}

func (h *InventoryHandler) GetForecast(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondError(c, err, "invalid filter")
		return
	}

	forecast, err := h.service.GetForecast(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err, "failed to fetch forecast")
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

func (h *InventoryHandler) GetRecords(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		respondError(c, err, "invalid filter")
		return
	}

	records, err := h.service.Records(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err, "failed to fetch records")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": records, "total": len(records)})
}

func (h *InventoryHandler) GetProducts(c *gin.Context) {
	products, err := h.service.Products(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "sizes": domain.Sizes})
}

func (h *InventoryHandler) GetDateRange(c *gin.Context) {
	dr, err := h.service.DateRange(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch date range")
		return
	}

	c.JSON(http.StatusOK, dr)
}

func (h *InventoryHandler) GetMetadata(c *gin.Context) {
	meta, err := h.service.Metadata(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch metadata")
		return
	}

	c.JSON(http.StatusOK, meta)
}

func (h *InventoryHandler) Refresh(c *gin.Context) {
	snap, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to refresh inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshot_id": snap.ID,
		"source":      snap.Source,
		"records":     len(snap.Records),
		"loaded_at":   snap.LoadedAt,
	})
}

// Upload loads an inventory sheet export (CSV or XLSX) sent as the "file"
// form field, with an optional master sheet in "master".
func (h *InventoryHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   "upload too large",
				"details": fmt.Sprintf("limit is %d bytes", tooLarge.Limit),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	inventoryGrid, err := readUpload(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file", "details": err.Error()})
		return
	}

	var masterGrid domain.Grid
	if master, err := c.FormFile("master"); err == nil {
		if masterGrid, err = readUpload(master); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid master file", "details": err.Error()})
			return
		}
	}

	snap, err := h.service.Load(c.Request.Context(), "upload:"+file.Filename, inventoryGrid, masterGrid)
	if err != nil {
		respondError(c, err, "failed to load inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshot_id": snap.ID,
		"source":      snap.Source,
		"records":     len(snap.Records),
		"loaded_at":   snap.LoadedAt,
	})
}

func readUpload(fh *multipart.FileHeader) (domain.Grid, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return source.Decode(fh.Filename, content, "")
}
