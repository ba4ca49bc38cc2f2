package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "evagobi/internal/errors"
	"evagobi/internal/files"
	"evagobi/pkg/contracts/domain"
)

const (
	defaultRowLimit = 500
	maxRowLimit     = 10000
)

// ChartInfo is one entry of GET /api/charts
type ChartInfo struct {
	domain.ChartSpec
	Description string          `json:"description"`
	File        files.FileInfo  `json:"file"`
	Image       *files.FileInfo `json:"image,omitempty"`
}

// ChartList is the body of GET /api/charts
type ChartList struct {
	Charts  []ChartInfo          `json:"charts"`
	Summary *domain.ChartSummary `json:"summary,omitempty"`
}

// DatasetList is the body of GET /api/datasets
type DatasetList struct {
	Datasets  []files.FileInfo    `json:"datasets"`
	Summary   *domain.DataSummary `json:"summary,omitempty"`
	Artifacts []files.FileInfo    `json:"artifacts"`
}

// TableResponse carries a chart or dataset as text cells
type TableResponse struct {
	Key       string     `json:"key"`
	Title     string     `json:"title,omitempty"`
	Kind      string     `json:"kind,omitempty"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
	Truncated bool       `json:"truncated"`
}

// DataHandler serves the prepared charts and the generated datasets
type DataHandler struct {
	catalog    *files.Catalog
	errHandler *apierrors.ErrorHandler
	logger     *slog.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(catalog *files.Catalog, errHandler *apierrors.ErrorHandler, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		catalog:    catalog,
		errHandler: errHandler,
		logger:     logger.With(slog.String("handler", "data")),
	}
}

// ChartRoutes returns the router mounted at /api/charts
func (h *DataHandler) ChartRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCharts)
	r.Get("/{chartID}", h.GetChart)
	r.Get("/{chartID}/image", h.GetChartImage)
	return r
}

// DatasetRoutes returns the router mounted at /api/datasets
func (h *DataHandler) DatasetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDatasets)
	r.Get("/{name}", h.GetDataset)
	return r
}

// ListCharts handles GET /api/charts
func (h *DataHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	chartFiles := h.catalog.Charts()
	resp := ChartList{Charts: make([]ChartInfo, 0, len(chartFiles))}
	for _, file := range chartFiles {
		spec, _ := domain.ChartByKey(file.Key)
		info := ChartInfo{ChartSpec: spec, Description: spec.Description(), File: file}
		if img := h.catalog.ChartImage(spec.Key); img.Exists {
			info.Image = &img
		}
		resp.Charts = append(resp.Charts, info)
	}

	summary, ok, err := h.catalog.ChartSummary()
	if err != nil {
		h.logger.WarnContext(r.Context(), "chart summary unreadable", slog.String("error", err.Error()))
	} else if ok {
		resp.Summary = &summary
	}

	render.JSON(w, r, resp)
}

// GetChart handles GET /api/charts/{chartID}?limit=N
func (h *DataHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	chartID := chi.URLParam(r, "chartID")
	limit, err := queryInt(r, "limit", defaultRowLimit, 0, maxRowLimit)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	table, err := h.catalog.ReadChart(chartID)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	resp := tableResponse(table, limit)
	if spec, ok := domain.ChartByKey(chartID); ok {
		resp.Title = spec.Title
		resp.Kind = spec.Kind
	}
	render.JSON(w, r, resp)
}

// GetChartImage handles GET /api/charts/{chartID}/image
func (h *DataHandler) GetChartImage(w http.ResponseWriter, r *http.Request) {
	chartID := chi.URLParam(r, "chartID")
	if _, ok := domain.ChartByKey(chartID); !ok {
		h.errHandler.HandleError(w, r, apierrors.NewNotFoundError("chart").WithContext("chart", chartID))
		return
	}
	img := h.catalog.ChartImage(chartID)
	if !img.Exists {
		h.errHandler.HandleError(w, r, apierrors.NewNotFoundError("chart image").WithContext("chart", chartID))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, img.Path)
}

// ListDatasets handles GET /api/datasets
func (h *DataHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	resp := DatasetList{
		Datasets:  h.catalog.Datasets(),
		Artifacts: h.catalog.Artifacts(),
	}

	summary, ok, err := h.catalog.DataSummary()
	if err != nil {
		h.logger.WarnContext(r.Context(), "data summary unreadable", slog.String("error", err.Error()))
	} else if ok {
		resp.Summary = &summary
	}

	render.JSON(w, r, resp)
}

// GetDataset handles GET /api/datasets/{name}?limit=N
func (h *DataHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultRowLimit, 0, maxRowLimit)
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	table, err := h.catalog.ReadDataset(chi.URLParam(r, "name"))
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, tableResponse(table, limit))
}

func tableResponse(table *domain.Table, limit int) TableResponse {
	rows := table.Records
	if rows == nil {
		rows = [][]string{}
	}
	truncated := len(rows) > limit
	if truncated {
		rows = rows[:limit]
	}
	return TableResponse{
		Key:       table.Key,
		Headers:   table.Headers,
		Rows:      rows,
		TotalRows: table.Len(),
		Truncated: truncated,
	}
}

// queryInt parses an optional integer query parameter within [min, max]
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, apierrors.NewAppValidationError(
			fmt.Sprintf("%s must be an integer between %d and %d", name, lo, hi)).
			WithContext("parameter", name)
	}
	return v, nil
}
