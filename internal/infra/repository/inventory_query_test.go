package repository

import (
	"strings"
	"testing"

	repo "cardstash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInventoryQuery_NoFilters(t *testing.T) {
	sql, args, err := buildInventoryQuery(repo.InventoryQuery{})
	require.NoError(t, err)

	assert.NotContains(t, sql, "WHERE")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY i.product_id ASC"))
	assert.Empty(t, args)
}

func TestBuildInventoryQuery_AllFilters(t *testing.T) {
	sql, args, err := buildInventoryQuery(repo.InventoryQuery{
		Search:    "char",
		Set:       "Base",
		Rarity:    "Rare Holo",
		Type:      "Fire",
		Condition: "Near Mint",
		Sort:      "price_desc",
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "c.card_name ILIKE ?")
	assert.Contains(t, sql, "(s.set_name = ? OR s.set_code = ?)")
	assert.Contains(t, sql, "c.rarity = ?")
	assert.Contains(t, sql, "? = ANY(c.types)")
	assert.Contains(t, sql, "p.condition = ?")
	assert.Contains(t, sql, "ORDER BY p.price DESC")
	assert.Equal(t, []any{"%char%", "Base", "Base", "Rare Holo", "Fire", "Near Mint"}, args)

	// 値がSQL本文に混ざらない
	assert.NotContains(t, sql, "char")
	assert.NotContains(t, sql, "Near Mint")
}

func TestBuildInventoryQuery_EscapesLike(t *testing.T) {
	_, args, err := buildInventoryQuery(repo.InventoryQuery{Search: "100%_x"})
	require.NoError(t, err)
	assert.Equal(t, []any{`%100\%\_x%`}, args)
}

func TestBuildInventoryQuery_Sorts(t *testing.T) {
	for _, s := range []string{"price_asc", "price_desc", "name_asc", "name_desc", "qty_asc", "qty_desc", "newest"} {
		_, _, err := buildInventoryQuery(repo.InventoryQuery{Sort: s})
		assert.NoError(t, err, s)
	}

	_, _, err := buildInventoryQuery(repo.InventoryQuery{Sort: "price; DROP TABLE inventory"})
	assert.ErrorIs(t, err, repo.ErrInvalidSort)
}

func TestSplitTypes(t *testing.T) {
	assert.Equal(t, []string{}, splitTypes(""))
	assert.Equal(t, []string{"Fire"}, splitTypes("Fire"))
	assert.Equal(t, []string{"Grass", "Psychic"}, splitTypes("Grass,Psychic"))
}
