package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "sellEnabled": true,
  "paper": true,
  "models": [
    {"symbol": "core", "percent": 70, "models": [
      {"symbol": "VTI", "percent": 60},
      {"symbol": "bonds", "percent": 40, "models": [
        {"symbol": "BND", "percent": 100}
      ]}
    ]},
    {"symbol": "QQQ", "percent": 30}
  ]
}`

func TestParse_OriginalFormat(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	assert.True(t, doc.SellEnabled)
	require.NotNil(t, doc.Paper)
	assert.True(t, *doc.Paper)
	require.Len(t, doc.Models, 2)

	core := doc.Models[0]
	assert.Equal(t, "core", core.Symbol)
	assert.True(t, core.IsModel())
	assert.True(t, core.Percent.Equal(decimal.NewFromInt(70)))
	require.Len(t, core.Children, 2)
	assert.Equal(t, "BND", core.Children[1].Children[0].Symbol)
	assert.False(t, doc.Models[1].IsModel())
}

func TestParse_RepairsTrailingCommas(t *testing.T) {
	broken := `{
  "models": [
    {"symbol": "VTI", "percent": 60,},
    {"symbol": "BND", "percent": 40},
  ],
}`
	doc, err := Parse([]byte(broken))
	require.NoError(t, err)
	require.Len(t, doc.Models, 2)
	assert.Equal(t, "BND", doc.Models[1].Symbol)
	assert.False(t, doc.SellEnabled)
	assert.Nil(t, doc.Paper)
}

func TestParse_WrongShapeFails(t *testing.T) {
	_, err := Parse([]byte(`{"models": "VTI"}`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Models, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewRegistry_RegistersNestedModels(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	registry := NewRegistry(doc.Models)

	children, ok := registry.Lookup("core")
	require.True(t, ok)
	assert.Len(t, children, 2)

	children, ok = registry.Lookup("bonds")
	require.True(t, ok)
	assert.Equal(t, "BND", children[0].Symbol)

	_, ok = registry.Lookup("VTI")
	assert.False(t, ok)
}

func TestSumPercent(t *testing.T) {
	nodes := []AllocationNode{
		{Symbol: "A", Percent: decimal.RequireFromString("33.33")},
		{Symbol: "B", Percent: decimal.RequireFromString("33.33")},
		{Symbol: "C", Percent: decimal.RequireFromString("33.34")},
	}
	assert.True(t, SumPercent(nodes).Equal(decimal.NewFromInt(100)))
	assert.True(t, SumPercent(nil).IsZero())
}
