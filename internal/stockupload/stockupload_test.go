package stockupload

import (
	"testing"
	"time"

	"cardstash/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NotArray(t *testing.T) {
	for _, body := range []string{`{"product_id":1}`, `"x"`, `not json`, ``} {
		_, err := Parse([]byte(body))
		assert.ErrorIs(t, err, ErrNotArray, body)
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestParse_Rows(t *testing.T) {
	body := `[
		{"product_id": 1, "quantity": 10},
		{"product_id": "2", "quantity": "0"},
		{"id": 3, "quantity": 4},
		{"product_id": "", "id": "5", "quantity": 1},
		{"product_id": 6, "quantity": -1},
		{"product_id": 7, "quantity": 1.5},
		{"product_id": "abc", "quantity": 1},
		{"product_id": 0, "quantity": 1},
		{"quantity": 1},
		"junk",
		{"product_id": 1, "quantity": 3, "last_updated": "2024-01-02T03:04:05Z"}
	]`

	got, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, 11, got.Received)
	assert.Equal(t, 6, got.Invalid)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, []model.StockLevel{
		{ProductID: 1, Quantity: 10},
		{ProductID: 2, Quantity: 0},
		{ProductID: 3, Quantity: 4},
		{ProductID: 5, Quantity: 1},
		{ProductID: 1, Quantity: 3, LastUpdated: &ts},
	}, got.Levels)
}

func TestParse_BadTimestampFallsBack(t *testing.T) {
	got, err := Parse([]byte(`[{"product_id": 1, "quantity": 2, "last_updated": "yesterday"}]`))
	require.NoError(t, err)
	require.Len(t, got.Levels, 1)
	assert.Nil(t, got.Levels[0].LastUpdated)
}

func TestParse_QuantityOutOfIntegerRange(t *testing.T) {
	body := `[
		{"product_id": 1, "quantity": 5},
		{"product_id": 2, "quantity": 3000000000},
		{"product_id": 3, "quantity": "2147483648"},
		{"product_id": 4, "quantity": 2147483647},
		{"product_id": "99999999999999999999", "quantity": 1}
	]`

	got, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, 5, got.Received)
	assert.Equal(t, 3, got.Invalid)
	assert.Equal(t, []model.StockLevel{
		{ProductID: 1, Quantity: 5},
		{ProductID: 4, Quantity: 2147483647},
	}, got.Levels)
}
