package categories

import (
	"context"
	"net/http"
	"slices"

	"github.com/mytheresa/item-processing-api/app/scoring"
	"github.com/mytheresa/item-processing-api/app/web"
	"github.com/mytheresa/item-processing-api/models"
	"github.com/sirupsen/logrus"
)

type CategoryResponse struct {
	Category  string  `json:"category"`
	Weight    float64 `json:"weight"`
	ItemCount int64   `json:"item_count"`
}

type CategoryProvider interface {
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
}

type CategoryHandler struct {
	repo    CategoryProvider
	weights scoring.Weights
	log     logrus.FieldLogger
}

func NewCategoryHandler(r CategoryProvider, weights scoring.Weights, log logrus.FieldLogger) *CategoryHandler {
	return &CategoryHandler{repo: r, weights: weights, log: log}
}

// HandleGetAll lists every weighted category plus any category present in
// the store, each with its effective weight and item count.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	counts, err := h.repo.CountByCategory(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to count items by category")
		web.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	byName := make(map[string]int64, len(counts))
	for _, c := range counts {
		byName[c.Category] = c.Count
	}
	for _, name := range h.weights.Categories() {
		if _, ok := byName[name]; !ok {
			byName[name] = 0
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	response := make([]CategoryResponse, len(names))
	for i, name := range names {
		response[i] = CategoryResponse{
			Category:  name,
			Weight:    h.weights.For(name),
			ItemCount: byName[name],
		}
	}

	web.JSON(w, http.StatusOK, response)
}
