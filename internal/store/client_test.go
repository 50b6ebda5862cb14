package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/policy"
	"github.com/shestoi/magazyn/internal/repository"
	"github.com/shestoi/magazyn/internal/repository/memory"
	"github.com/shestoi/magazyn/internal/repository/mocks"
)

func TestClient_ListItems(t *testing.T) {
	hammer := repository.Item{ID: "1", Name: "Hammer", Quantity: 5, UnitPrice: decimal.RequireFromString("12.50")}
	unavailable := fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable)

	tests := []struct {
		name          string
		orderedItems  []repository.Item
		orderedErr    error
		expectAll     bool
		allItems      []repository.Item
		allErr        error
		expectedItems []repository.Item
		expectedErr   error
	}{
		{
			name:          "success: ordered listing",
			orderedItems:  []repository.Item{hammer},
			expectedItems: []repository.Item{hammer},
		},
		{
			name:          "success: fallback when ordering unsupported",
			orderedErr:    fmt.Errorf("%w: column does not exist", repository.ErrOrderingUnsupported),
			expectAll:     true,
			allItems:      []repository.Item{hammer},
			expectedItems: []repository.Item{hammer},
		},
		{
			name:          "success: fallback on any ordered failure",
			orderedErr:    unavailable,
			expectAll:     true,
			allItems:      []repository.Item{hammer},
			expectedItems: []repository.Item{hammer},
		},
		{
			name:          "success: empty table yields empty slice",
			orderedItems:  nil,
			expectedItems: []repository.Item{},
		},
		{
			name:        "error: unordered step fails",
			orderedErr:  repository.ErrOrderingUnsupported,
			expectAll:   true,
			allErr:      unavailable,
			expectedErr: repository.ErrStoreUnavailable,
		},
		{
			name:        "error: unclassified unordered failure becomes unavailable",
			orderedErr:  repository.ErrOrderingUnsupported,
			expectAll:   true,
			allErr:      errors.New("boom"),
			expectedErr: repository.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mocks.NewTable(t)
			table.On("SelectOrdered", mock.Anything, repository.ColumnAddedAt, true).
				Return(tt.orderedItems, tt.orderedErr).Once()
			if tt.expectAll {
				table.On("SelectAll", mock.Anything).Return(tt.allItems, tt.allErr).Once()
			}

			client := NewClient(table, zap.NewNop())
			items, err := client.ListItems(context.Background())

			if tt.expectedErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
				require.Nil(t, items)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, items)
			require.Equal(t, tt.expectedItems, items)
		})
	}
}

func TestClient_ApplyQuantityChange(t *testing.T) {
	tests := []struct {
		name        string
		newQuantity int
		setupMock   func(table *mocks.Table)
	}{
		{
			name:        "success: positive quantity updates in place",
			newQuantity: 7,
			setupMock: func(table *mocks.Table) {
				table.On("UpdateQuantity", mock.Anything, "42", 7).Return(nil).Once()
			},
		},
		{
			name:        "success: zero quantity deletes",
			newQuantity: 0,
			setupMock: func(table *mocks.Table) {
				table.On("Delete", mock.Anything, "42").Return(nil).Once()
			},
		},
		{
			name:        "success: negative quantity deletes",
			newQuantity: -3,
			setupMock: func(table *mocks.Table) {
				table.On("Delete", mock.Anything, "42").Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mocks.NewTable(t)
			tt.setupMock(table)

			client := NewClient(table, zap.NewNop())
			require.NoError(t, client.ApplyQuantityChange(context.Background(), "42", tt.newQuantity))
		})
	}
}

func TestClient_InsertItem(t *testing.T) {
	addedAt := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		quantity     int
		unitPrice    decimal.Decimal
		expectInsert bool
		expectedErrs []error
	}{
		{name: "success: valid row", quantity: 5, unitPrice: decimal.RequireFromString("12.50"), expectInsert: true},
		{name: "success: zero price", quantity: 1, unitPrice: decimal.Zero, expectInsert: true},
		{name: "error: zero quantity", quantity: 0, unitPrice: decimal.NewFromInt(1), expectedErrs: []error{ErrInvalidItem, policy.ErrInvalidQuantity}},
		{name: "error: negative quantity", quantity: -2, unitPrice: decimal.NewFromInt(1), expectedErrs: []error{ErrInvalidItem, policy.ErrInvalidQuantity}},
		{name: "error: negative price", quantity: 3, unitPrice: decimal.NewFromInt(-5), expectedErrs: []error{ErrInvalidItem}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mocks.NewTable(t)
			if tt.expectInsert {
				table.On("Insert", mock.Anything, repository.NewItem{
					Name: "Hammer", Quantity: tt.quantity, UnitPrice: tt.unitPrice, AddedAt: addedAt,
				}).Return(nil).Once()
			}

			client := NewClient(table, zap.NewNop())
			err := client.InsertItem(context.Background(), "Hammer", tt.quantity, tt.unitPrice, addedAt)

			if len(tt.expectedErrs) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, target := range tt.expectedErrs {
				require.True(t, errors.Is(err, target), "got %v", err)
			}
			table.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestClient_InsertItemKeepsTableValid(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memory.NewMemoryRepository(), zap.NewNop())

	require.Error(t, client.InsertItem(ctx, "Zero", 0, decimal.NewFromInt(1), time.Now()))
	require.Error(t, client.InsertItem(ctx, "NegPrice", 3, decimal.NewFromInt(-5), time.Now()))

	items, err := client.ListItems(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestClient_ApplyPropagatesStoreError(t *testing.T) {
	table := mocks.NewTable(t)
	table.On("Delete", mock.Anything, "42").
		Return(fmt.Errorf("%w: status 503", repository.ErrStoreUnavailable)).Once()

	client := NewClient(table, zap.NewNop())
	err := client.Apply(context.Background(), "42", policy.ComputeFullRemoval())
	require.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestClient_WithMemoryTable(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memory.NewMemoryRepository(), zap.NewNop())

	items, err := client.ListItems(ctx)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	addedAt := time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)
	require.NoError(t, client.InsertItem(ctx, "Hammer", 5, decimal.RequireFromString("12.50"), addedAt))

	items, err = client.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	hammer := items[0]
	require.Equal(t, "Hammer", hammer.Name)
	require.Equal(t, 5, hammer.Quantity)
	require.Equal(t, "12.50", hammer.UnitPrice.StringFixed(2))
	require.Equal(t, "2024-01-15", repository.FormatDate(hammer.AddedAt))

	decision, err := policy.ComputeQuantityUpdate(hammer.Quantity, 3)
	require.NoError(t, err)
	require.NoError(t, client.Apply(ctx, hammer.ID, decision))

	items, err = client.ListItems(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, items[0].Quantity)

	// повторное удаление той же строки не ошибка
	require.NoError(t, client.Apply(ctx, hammer.ID, policy.ComputeFullRemoval()))
	require.NoError(t, client.Apply(ctx, hammer.ID, policy.ComputeFullRemoval()))

	items, err = client.ListItems(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, client.Ping(ctx))
}
