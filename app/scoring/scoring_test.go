package scoring

import (
	"math"
	"testing"

	"github.com/mytheresa/item-processing-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id uint, category string, value float64) models.Item {
	return models.Item{ID: id, Name: category, Category: category, Value: value, Rating: 1}
}

func scores(res Result) []float64 {
	out := make([]float64, len(res.TopItems))
	for i, it := range res.TopItems {
		out[i] = it.Score
	}
	return out
}

func ids(res Result) []uint {
	out := make([]uint, len(res.TopItems))
	for i, it := range res.TopItems {
		out[i] = it.ID
	}
	return out
}

func TestEngine_Rank(t *testing.T) {
	engine := NewEngine(DefaultWeights())

	testCases := []struct {
		name        string
		items       []models.Item
		topN        int
		wantIDs     []uint
		wantScores  []float64
		wantCount   int
		wantAverage float64
	}{
		{
			name:        "Laptop outranks headphones",
			items:       []models.Item{item(1, "laptop", 1000), item(2, "headphones", 100)},
			topN:        1,
			wantIDs:     []uint{1},
			wantScores:  []float64{1200},
			wantCount:   2,
			wantAverage: 645.0,
		},
		{
			name:        "Unknown category defaults to weight 1.0",
			items:       []models.Item{item(7, "wearable", 350)},
			topN:        3,
			wantIDs:     []uint{7},
			wantScores:  []float64{350},
			wantCount:   1,
			wantAverage: 350,
		},
		{
			name:        "top_n larger than item count returns all items",
			items:       []models.Item{item(1, "monitor", 100), item(2, "smartphone", 300), item(3, "laptop", 50)},
			topN:        10,
			wantIDs:     []uint{2, 1, 3},
			wantScores:  []float64{300, 110.00000000000001, 60},
			wantCount:   3,
			wantAverage: 156.67,
		},
		{
			name:        "Equal scores keep input order",
			items:       []models.Item{item(5, "smartphone", 100), item(3, "wearable", 100), item(9, "smartphone", 200), item(1, "other", 100)},
			topN:        4,
			wantIDs:     []uint{9, 5, 3, 1},
			wantScores:  []float64{200, 100, 100, 100},
			wantCount:   4,
			wantAverage: 125,
		},
		{
			name:        "Empty collection",
			items:       nil,
			topN:        3,
			wantIDs:     []uint{},
			wantScores:  []float64{},
			wantCount:   0,
			wantAverage: 0,
		},
		{
			name:        "Average is rounded but scores are not",
			items:       []models.Item{item(1, "smartphone", 1.005), item(2, "smartphone", 2.001), item(3, "smartphone", 0.001)},
			topN:        3,
			wantIDs:     []uint{2, 1, 3},
			wantScores:  []float64{2.001, 1.005, 0.001},
			wantCount:   3,
			wantAverage: 1,
		},
		{
			name:        "Half cent below the binary midpoint rounds down",
			items:       []models.Item{item(1, "smartphone", 2.675)},
			topN:        1,
			wantIDs:     []uint{1},
			wantScores:  []float64{2.675},
			wantCount:   1,
			wantAverage: 2.67,
		},
		{
			name:        "1.005 rounds to 1.00",
			items:       []models.Item{item(1, "smartphone", 1.005)},
			topN:        1,
			wantIDs:     []uint{1},
			wantScores:  []float64{1.005},
			wantCount:   1,
			wantAverage: 1.0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := engine.Rank(tc.items, tc.topN)

			assert.Equal(t, tc.wantIDs, ids(res))
			assert.InDeltaSlice(t, tc.wantScores, scores(res), 1e-9)
			assert.Equal(t, tc.wantCount, res.Count)
			assert.Equal(t, tc.wantAverage, res.AverageScore)
		})
	}
}

func TestEngine_RankDoesNotMutateInput(t *testing.T) {
	items := []models.Item{item(1, "headphones", 10), item(2, "laptop", 20)}
	before := append([]models.Item(nil), items...)

	NewEngine(DefaultWeights()).Rank(items, 1)

	assert.Equal(t, before, items)
}

func TestEngine_RankTruncation(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	items := []models.Item{
		item(1, "laptop", 1499.99),
		item(2, "smartphone", 899.50),
		item(3, "headphones", 199.00),
		item(4, "monitor", 650.0),
		item(5, "laptop", 1299.00),
	}

	for topN := 1; topN <= len(items)+2; topN++ {
		res := engine.Rank(items, topN)
		require.Len(t, res.TopItems, min(topN, len(items)))
		for i := 1; i < len(res.TopItems); i++ {
			assert.GreaterOrEqual(t, res.TopItems[i-1].Score, res.TopItems[i].Score)
		}
	}

	assert.Empty(t, engine.Rank(items, 0).TopItems)
	assert.Empty(t, engine.Rank(items, -4).TopItems)
}

func TestEngine_RankSeedSample(t *testing.T) {
	items := []models.Item{
		item(1, "laptop", 1499.99),
		item(2, "smartphone", 899.50),
		item(3, "headphones", 199.00),
		item(4, "monitor", 650.0),
		item(5, "laptop", 1299.00),
		item(6, "headphones", 120.75),
		item(7, "wearable", 350.0),
	}

	res := NewEngine(DefaultWeights()).Rank(items, 3)

	assert.Equal(t, []uint{1, 5, 2}, ids(res))
	assert.Equal(t, 7, res.Count)
	// (1799.988 + 899.5 + 179.1 + 715 + 1558.8 + 108.675 + 350) / 7
	assert.Equal(t, 801.58, res.AverageScore)
}

func TestWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 1.2, w.For("laptop"))
	assert.Equal(t, 0.9, w.For("headphones"))
	assert.Equal(t, 1.0, w.For("wearable"))
	assert.Equal(t, 1.0, w.For("Laptop"), "lookups are case-sensitive")
	assert.Equal(t, []string{"headphones", "laptop", "monitor", "smartphone"}, w.Categories())

	var zero Weights
	assert.Equal(t, DefaultWeight, zero.For("laptop"))
}

func TestNewWeights(t *testing.T) {
	table := map[string]float64{"tablet": 1.3}
	w, err := NewWeights(table, 0.5)
	require.NoError(t, err)

	table["tablet"] = 9
	assert.Equal(t, 1.3, w.For("tablet"), "table is copied")
	assert.Equal(t, 0.5, w.For("laptop"))

	_, err = NewWeights(map[string]float64{"bad": 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = NewWeights(nil, -1)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.Equal(t, DefaultTopN, DefaultOptions().TopN)
	assert.NoError(t, Options{TopN: 1, Category: "laptop"}.Validate())
	assert.ErrorIs(t, Options{TopN: 0}.Validate(), ErrInvalidTopN)
}

func TestRoundCents(t *testing.T) {
	testCases := []struct {
		in   float64
		want float64
	}{
		{in: 2.675, want: 2.67},
		{in: 1.005, want: 1.0},
		{in: 0.125, want: 0.12},
		{in: 156.665, want: 156.66},
		{in: 156.66666666666666, want: 156.67},
		{in: 801.5804285714286, want: 801.58},
		{in: 143.8875, want: 143.89},
		{in: 0, want: 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, roundCents(tc.in), "roundCents(%v)", tc.in)
	}
	assert.True(t, math.IsInf(roundCents(math.Inf(1)), 1))
}
