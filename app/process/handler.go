package process

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mytheresa/item-processing-api/app/scoring"
	"github.com/mytheresa/item-processing-api/app/web"
	"github.com/mytheresa/item-processing-api/models"
	"github.com/sirupsen/logrus"
)

type ScoredItem struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Rating   int     `json:"rating"`
	Score    float64 `json:"score"`
}

type Response struct {
	TopItems     []ScoredItem `json:"top_items"`
	Count        int          `json:"count"`
	AverageScore float64      `json:"average_score"`
}

type ItemLoader interface {
	GetAllItems(ctx context.Context, filters models.ItemFilters) ([]models.Item, error)
}

// Recorder receives the outcome of each scoring run.
type Recorder interface {
	ObserveProcess(count int, averageScore float64)
}

type ProcessHandler struct {
	repo        ItemLoader
	engine      *scoring.Engine
	recorder    Recorder
	log         logrus.FieldLogger
	defaultTopN int
}

func NewProcessHandler(r ItemLoader, engine *scoring.Engine, rec Recorder, log logrus.FieldLogger, defaultTopN int) *ProcessHandler {
	if defaultTopN < 1 {
		defaultTopN = scoring.DefaultTopN
	}
	return &ProcessHandler{
		repo:        r,
		engine:      engine,
		recorder:    rec,
		log:         log,
		defaultTopN: defaultTopN,
	}
}

// NewResponse maps an engine result onto the JSON payload.
func NewResponse(res scoring.Result) Response {
	top := make([]ScoredItem, len(res.TopItems))
	for i, it := range res.TopItems {
		top[i] = ScoredItem{
			ID:       it.ID,
			Name:     it.Name,
			Category: it.Category,
			Value:    it.Value,
			Rating:   it.Rating,
			Score:    it.Score,
		}
	}
	return Response{
		TopItems:     top,
		Count:        res.Count,
		AverageScore: res.AverageScore,
	}
}

// HandleProcess handles GET /process?top_n=&category=.
func (h *ProcessHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	opts := scoring.Options{
		TopN:     h.defaultTopN,
		Category: r.URL.Query().Get("category"),
	}
	if nStr := r.URL.Query().Get("top_n"); nStr != "" {
		n, err := strconv.Atoi(nStr)
		if err != nil {
			web.Error(w, http.StatusUnprocessableEntity, "top_n must be an integer")
			return
		}
		opts.TopN = n
	}
	if err := opts.Validate(); err != nil {
		web.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	items, err := h.repo.GetAllItems(r.Context(), models.ItemFilters{Category: opts.Category})
	if err != nil {
		h.log.WithError(err).WithField("category", opts.Category).Error("failed to load items for processing")
		web.Error(w, http.StatusInternalServerError, "Failed to process items")
		return
	}

	res := h.engine.Rank(items, opts.TopN)
	if h.recorder != nil {
		h.recorder.ObserveProcess(res.Count, res.AverageScore)
	}

	web.JSON(w, http.StatusOK, NewResponse(res))
}
