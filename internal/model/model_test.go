package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()

	assert.Len(t, cats, 2)
	assert.Equal(t, "Work", cats[0].Name)
	assert.Equal(t, PastelColors[0], cats[0].Color)
	assert.Equal(t, "Personal", cats[1].Name)
	assert.Equal(t, PastelColors[1], cats[1].Color)
}

func TestResolveCategory_Live(t *testing.T) {
	cats := []Category{{ID: "c1", Name: "Gym", Color: PastelColors[2]}}

	got := ResolveCategory(cats, "c1")
	assert.Equal(t, "Gym", got.Name)
}

func TestResolveCategory_DanglingFallsBackToSentinel(t *testing.T) {
	cats := []Category{{ID: "c1", Name: "Gym", Color: PastelColors[2]}}

	got := ResolveCategory(cats, "deleted-cat")
	assert.Equal(t, DefaultCategoryID, got.ID)
	assert.Equal(t, DefaultCategoryColor, got.Color)
}

func TestResolveCategory_Sentinel(t *testing.T) {
	got := ResolveCategory(nil, DefaultCategoryID)
	assert.Equal(t, DefaultCategoryName, got.Name)
}

func TestIsLocalCategoryID(t *testing.T) {
	assert.True(t, IsLocalCategoryID("default"))
	assert.True(t, IsLocalCategoryID("cat-1"))
	assert.True(t, IsLocalCategoryID("cat-2"))
	assert.False(t, IsLocalCategoryID("0b5c9f3e-8f9a-4f0d-9b7e-2f6a1d3c4e5f"))
}

func TestValidText(t *testing.T) {
	text, ok := ValidText("  Run 5k  ")
	assert.True(t, ok)
	assert.Equal(t, "Run 5k", text)

	_, ok = ValidText("   ")
	assert.False(t, ok)

	_, ok = ValidText("")
	assert.False(t, ok)
}
