package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-dashboard/internal/housing"
)

type HousingOptions struct {
	ScatterColumns []string
	ZScoreRows     int
	ExportFilename string
}

// HousingHandler serves the statistics of one housing table loaded at
// startup.
type HousingHandler struct {
	data *housing.Dataset
	opts HousingOptions
}

func NewHousingHandler(data *housing.Dataset, opts HousingOptions) *HousingHandler {
	if len(opts.ScatterColumns) == 0 {
		opts.ScatterColumns = housing.DefaultScatterColumns
	}
	if opts.ZScoreRows <= 0 {
		opts.ZScoreRows = housing.DefaultZScoreRows
	}
	if opts.ExportFilename == "" {
		opts.ExportFilename = "housing_summary.csv"
	}
	return &HousingHandler{data: data, opts: opts}
}

func (h *HousingHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", health)

	g := r.Group("/api/housing")
	g.GET("/overview", h.getOverview)
	g.GET("/summary", h.getSummary)
	g.GET("/correlation", h.getCorrelation)
	g.GET("/scatter", h.getScatter)
	g.GET("/zscores", h.getZScores)
	g.GET("/export", h.export)
}

func (h *HousingHandler) getOverview(c *gin.Context) {
	n, _, err := queryInt(c, "rows")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":            h.data.Len(),
		"numeric_columns": h.data.NumericColumns(),
		"head":            h.data.Overview(n),
	})
}

func (h *HousingHandler) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.data.Summary())
}

func (h *HousingHandler) getCorrelation(c *gin.Context) {
	c.JSON(http.StatusOK, h.data.Correlation())
}

func (h *HousingHandler) getScatter(c *gin.Context) {
	cols := h.opts.ScatterColumns
	if requested, ok := c.GetQueryArray("column"); ok {
		if requested = nonBlank(requested); len(requested) > 0 {
			cols = requested
		}
	}

	s, err := h.data.ScatterMatrix(cols)
	if errors.Is(err, housing.ErrUnknownColumn) || errors.Is(err, housing.ErrNotNumeric) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		slog.Error("failed to build scatter matrix", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build scatter matrix"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *HousingHandler) getZScores(c *gin.Context) {
	n, ok, err := queryInt(c, "rows")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		n = h.opts.ZScoreRows
	}
	c.JSON(http.StatusOK, h.data.ZScores(n))
}

func (h *HousingHandler) export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))

	var buf bytes.Buffer
	var err error
	name := h.opts.ExportFilename
	contentType := contentTypeCSV
	switch format {
	case "csv":
		err = housing.WriteSummaryCSV(&buf, h.data.Describe())
	case "xlsx":
		name = withExtension(name, ".xlsx")
		contentType = contentTypeXLSX
		err = housing.WriteSummaryXLSX(&buf, h.data.Describe())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	if err != nil {
		slog.Error("failed to export housing summary", "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export"})
		return
	}

	attachment(c, name, contentType, buf.Bytes())
}
