package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-dashboard/internal/aggregate"
	"github.com/mr1hm/go-disaster-dashboard/internal/dataset"
	"github.com/mr1hm/go-disaster-dashboard/internal/filter"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
)

const (
	emptyNotice = "No events match the selected filters."

	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type DisasterOptions struct {
	CityDefault    filter.CityDefault
	TopLocations   int
	ExportFilename string
}

type Handler struct {
	provider dataset.Provider
	opts     DisasterOptions
	metrics  *observability.Metrics
}

func NewHandler(provider dataset.Provider, opts DisasterOptions, metrics *observability.Metrics) *Handler {
	if opts.CityDefault == "" {
		opts.CityDefault = filter.CityDefaultAll
	}
	if opts.ExportFilename == "" {
		opts.ExportFilename = "filtered_disasters.csv"
	}
	return &Handler{
		provider: provider,
		opts:     opts,
		metrics:  metrics,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", health)

	g := r.Group("/api/disasters")
	g.GET("/filters", h.getFilters)
	g.GET("/dashboard", h.getDashboard)
	g.GET("/events", h.getEvents)
	g.GET("/map", h.getMap)
	g.GET("/export", h.export)
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) snapshot(c *gin.Context) (*dataset.Snapshot, bool) {
	s, err := h.provider.Snapshot(c.Request.Context())
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		h.metrics.LoadErrors.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load dataset",
		})
		return nil, false
	}
	return s, true
}

// view loads the snapshot and applies the request's filters. It writes the
// error response itself and reports whether the caller should continue.
func (h *Handler) view(c *gin.Context) (*dataset.Snapshot, filter.View, bool) {
	p, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, filter.View{}, false
	}
	s, ok := h.snapshot(c)
	if !ok {
		return nil, filter.View{}, false
	}
	v, err := filter.Apply(s.Events, p)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, filter.View{}, false
	}

	h.metrics.FilteredEvents.Observe(float64(v.Len()))
	if v.Empty() {
		h.metrics.EmptyViews.WithLabelValues(c.FullPath()).Inc()
	}
	return s, v, true
}

func emptyResponse(v filter.View) gin.H {
	return gin.H{
		"empty":  true,
		"notice": emptyNotice,
		"params": v.Params,
	}
}

func (h *Handler) getFilters(c *gin.Context) {
	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	opts := filter.Domain(s.Events, aggregate.Dimensions())
	c.JSON(http.StatusOK, gin.H{
		"options":      opts,
		"defaults":     opts.Defaults(h.opts.CityDefault),
		"has_severity": s.HasSeverity,
		"has_map":      s.HasCoordinates,
		"loaded_at":    s.LoadedAt,
	})
}

func (h *Handler) getDashboard(c *gin.Context) {
	opts, err := parseDashboardOptions(c, h.opts.TopLocations)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, v, ok := h.view(c)
	if !ok {
		return
	}
	opts.WithSeverity = s.HasSeverity

	d, err := aggregate.Build(v, opts)
	if errors.Is(err, aggregate.ErrEmptyView) {
		c.JSON(http.StatusOK, emptyResponse(v))
		return
	}
	if err != nil {
		slog.Error("failed to build dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empty":     false,
		"params":    v.Params,
		"dashboard": d,
	})
}

func (h *Handler) getEvents(c *gin.Context) {
	s, v, ok := h.view(c)
	if !ok {
		return
	}
	if v.Empty() {
		c.JSON(http.StatusOK, emptyResponse(v))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"empty":   false,
		"params":  v.Params,
		"count":   v.Len(),
		"columns": dataset.ExportHeader(s),
		"rows":    dataset.ExportRecords(s, v.Events),
	})
}

func (h *Handler) getMap(c *gin.Context) {
	s, v, ok := h.view(c)
	if !ok {
		return
	}
	if !s.HasCoordinates {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset has no coordinates"})
		return
	}
	if v.Empty() {
		c.JSON(http.StatusOK, emptyResponse(v))
		return
	}

	fc := toGeoJSON(v.Events)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	s, v, ok := h.view(c)
	if !ok {
		return
	}
	if v.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"error": emptyNotice})
		return
	}

	var buf bytes.Buffer
	var err error
	contentType := contentTypeCSV
	name := h.opts.ExportFilename
	if format == "xlsx" {
		contentType = contentTypeXLSX
		name = withExtension(name, ".xlsx")
		err = dataset.WriteXLSX(&buf, s, v.Events)
	} else {
		err = dataset.WriteCSV(&buf, s, v.Events)
	}
	if err != nil {
		slog.Error("failed to export view", "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export"})
		return
	}

	attachment(c, name, contentType, buf.Bytes())
}

func attachment(c *gin.Context, name, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, body)
}

func withExtension(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
