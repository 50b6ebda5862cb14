package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shestoi/magazyn/internal/repository"
)

func TestRenderInventory(t *testing.T) {
	var buf bytes.Buffer
	err := renderInventory(&buf, []repository.Item{
		{ID: "1", Name: "Hammer", Quantity: 5, UnitPrice: decimal.RequireFromString("12.5"), AddedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Name: "Nails", Quantity: 200, UnitPrice: decimal.RequireFromString("0.03"), AddedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Hammer")
	require.Contains(t, out, "12.50")
	require.Contains(t, out, "62.50")
	require.Contains(t, out, "2024-01-15")
	require.Contains(t, out, "2 items, 205 units, total value 68.50")
}

func TestRenderInventory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderInventory(&buf, []repository.Item{}))
	require.Equal(t, "Inventory is empty\n", buf.String())
}
