// Package scoring ranks items by a category-weighted score.
//
// The engine is a pure projection over the items it is handed: it never
// reads from or writes to the store.
package scoring

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strconv"

	"github.com/mytheresa/item-processing-api/models"
	"github.com/shopspring/decimal"
)

// DefaultTopN is the number of ranked items returned when none is requested.
const DefaultTopN = 3

// ErrInvalidTopN is returned when fewer than one top item is requested.
var ErrInvalidTopN = errors.New("top_n must be at least 1")

// Options controls a processing run.
//
//	TopN:     number of ranked items to return; default DefaultTopN, must be >= 1.
//	Category: optional equality filter applied before scoring; "" means no filter.
type Options struct {
	TopN     int
	Category string
}

// DefaultOptions returns Options with TopN = DefaultTopN and no category filter.
func DefaultOptions() Options {
	return Options{TopN: DefaultTopN}
}

func (o Options) Validate() error {
	if o.TopN < 1 {
		return ErrInvalidTopN
	}
	return nil
}

// ScoredItem is an item with its computed score. It is never persisted.
type ScoredItem struct {
	models.Item
	Score float64
}

// Result is the outcome of ranking a collection of items.
type Result struct {
	TopItems     []ScoredItem
	Count        int
	AverageScore float64
}

type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Weights returns the table the engine scores with.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Rank scores every item, sorts them by descending score and keeps the first
// topN. Items with equal scores keep their input order. The average covers all
// items and is rounded to two decimals; per-item scores are left unrounded.
func (e *Engine) Rank(items []models.Item, topN int) Result {
	scored := make([]ScoredItem, 0, len(items))
	var total float64
	for _, item := range items {
		score := item.Value * e.weights.For(item.Category)
		total += score
		scored = append(scored, ScoredItem{Item: item, Score: score})
	}

	slices.SortStableFunc(scored, func(a, b ScoredItem) int {
		return cmp.Compare(b.Score, a.Score)
	})

	count := len(scored)
	average := 0.0
	if count > 0 {
		average = roundCents(total / float64(count))
	}

	return Result{
		TopItems:     scored[:max(0, min(topN, count))],
		Count:        count,
		AverageScore: average,
	}
}

// roundCents rounds the exact binary value of f to two decimals, so 2.675
// (stored as 2.67499...) becomes 2.67.
func roundCents(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	return decimal.RequireFromString(strconv.FormatFloat(f, 'f', 2, 64)).InexactFloat64()
}
