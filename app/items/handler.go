package items

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/mytheresa/item-processing-api/app/web"
	"github.com/mytheresa/item-processing-api/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type Item struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Rating   int     `json:"rating"`
}

// ItemInput is the body accepted by create and update. Every field must be present.
type ItemInput struct {
	Name     *string  `json:"name" validate:"required"`
	Category *string  `json:"category" validate:"required"`
	Value    *float64 `json:"value" validate:"required"`
	Rating   *int     `json:"rating" validate:"required"`
}

func (in ItemInput) fields() models.ItemFields {
	return models.ItemFields{
		Name:     *in.Name,
		Category: *in.Category,
		Value:    *in.Value,
		Rating:   *in.Rating,
	}
}

type ItemProvider interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	GetFilteredItems(ctx context.Context, offset, limit int, filters models.ItemFilters) ([]models.Item, error)
	UpdateItem(ctx context.Context, id uint, fields models.ItemFields) (*models.Item, error)
	DeleteItem(ctx context.Context, id uint) error
}

type ItemsHandler struct {
	repo     ItemProvider
	log      logrus.FieldLogger
	maxLimit int
}

// Option customizes an ItemsHandler.
type Option func(*ItemsHandler)

// WithMaxLimit caps the page size accepted by HandleList.
func WithMaxLimit(n int) Option {
	return func(h *ItemsHandler) {
		if n > 0 {
			h.maxLimit = n
		}
	}
}

func NewItemsHandler(r ItemProvider, log logrus.FieldLogger, opts ...Option) *ItemsHandler {
	h := &ItemsHandler{
		repo:     r,
		log:      log,
		maxLimit: maxLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func toItem(m *models.Item) Item {
	return Item{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		Value:    m.Value,
		Rating:   m.Rating,
	}
}

// HandleCreate handles POST /items.
func (h *ItemsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	f := input.fields()
	item := &models.Item{
		Name:     f.Name,
		Category: f.Category,
		Value:    f.Value,
		Rating:   f.Rating,
	}
	if err := h.repo.CreateItem(r.Context(), item); err != nil {
		h.log.WithError(err).Error("failed to create item")
		web.Error(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	h.log.WithField("item_id", item.ID).Info("item created")
	web.JSON(w, http.StatusCreated, toItem(item))
}

// HandleList handles GET /items?skip=&limit=&category=.
func (h *ItemsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	skip := 0
	limit := defaultLimit

	if sStr := r.URL.Query().Get("skip"); sStr != "" {
		if s, err := strconv.Atoi(sStr); err == nil && s >= 0 {
			skip = s
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > h.maxLimit {
				limit = h.maxLimit
			} else {
				limit = l
			}
		}
	}

	filters := models.ItemFilters{
		Category: r.URL.Query().Get("category"),
	}

	res, err := h.repo.GetFilteredItems(r.Context(), skip, limit, filters)
	if err != nil {
		h.log.WithError(err).Error("failed to list items")
		web.Error(w, http.StatusInternalServerError, "Failed to get items")
		return
	}

	items := make([]Item, len(res))
	for i := range res {
		items[i] = toItem(&res[i])
	}
	web.JSON(w, http.StatusOK, items)
}

// HandleGet handles GET /items/{id}.
func (h *ItemsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, id, "Failed to retrieve item")
		return
	}
	web.JSON(w, http.StatusOK, toItem(item))
}

// HandleUpdate handles PUT /items/{id}.
func (h *ItemsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := h.repo.UpdateItem(r.Context(), id, input.fields())
	if err != nil {
		h.writeStoreError(w, err, id, "Failed to update item")
		return
	}

	h.log.WithField("item_id", id).Info("item updated")
	web.JSON(w, http.StatusOK, toItem(item))
}

// HandleDelete handles DELETE /items/{id}. Success has no body.
func (h *ItemsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteItem(r.Context(), id); err != nil {
		h.writeStoreError(w, err, id, "Failed to delete item")
		return
	}

	h.log.WithField("item_id", id).Info("item deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemsHandler) decodeInput(w http.ResponseWriter, r *http.Request) (ItemInput, bool) {
	var input ItemInput
	if err := web.Decode(r, &input); err != nil {
		var verr *web.ValidationError
		if errors.As(err, &verr) {
			web.ValidationFailed(w, verr)
			return input, false
		}
		web.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return input, false
	}
	return input, true
}

func (h *ItemsHandler) writeStoreError(w http.ResponseWriter, err error, id uint, message string) {
	if errors.Is(err, models.ErrItemNotFound) {
		web.Error(w, http.StatusNotFound, "Item not found")
		return
	}
	h.log.WithError(err).WithField("item_id", id).Error(message)
	web.Error(w, http.StatusInternalServerError, message)
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil {
		web.Error(w, http.StatusUnprocessableEntity, "Invalid item id")
		return 0, false
	}
	return uint(id), true
}
