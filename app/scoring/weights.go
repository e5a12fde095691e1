package scoring

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// DefaultWeight applies to categories absent from the weight table.
const DefaultWeight = 1.0

// ErrInvalidWeight is returned when a weight is not strictly positive.
var ErrInvalidWeight = errors.New("category weight must be positive")

// Weights is an immutable category -> multiplier table.
// The zero value weighs every category with DefaultWeight.
type Weights struct {
	byCategory map[string]float64
	fallback   float64
}

// DefaultWeights returns the built-in category weight table.
func DefaultWeights() Weights {
	return Weights{
		byCategory: map[string]float64{
			"laptop":     1.2,
			"smartphone": 1.0,
			"headphones": 0.9,
			"monitor":    1.1,
		},
		fallback: DefaultWeight,
	}
}

// NewWeights copies table so later changes by the caller are not observed.
func NewWeights(table map[string]float64, fallback float64) (Weights, error) {
	if fallback <= 0 {
		return Weights{}, fmt.Errorf("%w: default weight %v", ErrInvalidWeight, fallback)
	}
	byCategory := make(map[string]float64, len(table))
	for category, weight := range table {
		if weight <= 0 {
			return Weights{}, fmt.Errorf("%w: %q has weight %v", ErrInvalidWeight, category, weight)
		}
		byCategory[category] = weight
	}
	return Weights{byCategory: byCategory, fallback: fallback}, nil
}

// For returns the multiplier for category.
func (w Weights) For(category string) float64 {
	if weight, ok := w.byCategory[category]; ok {
		return weight
	}
	if w.fallback == 0 {
		return DefaultWeight
	}
	return w.fallback
}

// Categories lists the categories with an explicit weight, sorted.
func (w Weights) Categories() []string {
	return slices.Sorted(maps.Keys(w.byCategory))
}
