package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/repository"
)

const testKey = "test-anon-key"

// fakePostgREST минимально повторяет поведение PostgREST для одной таблицы
type fakePostgREST struct {
	mu          sync.Mutex
	rows        []map[string]any
	nextID      int
	rejectOrder bool
	failAll     int
	rejectWrite int
	requests    []string
}

func newFakePostgREST() *fakePostgREST {
	return &fakePostgREST{nextID: 1}
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.RawQuery)

	if r.URL.Path != "/rest/v1/magazyn" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Header.Get("apikey") != testKey || r.Header.Get("Authorization") != "Bearer "+testKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
		return
	}
	if f.failAll != 0 {
		w.WriteHeader(f.failAll)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
		return
	}

	if f.rejectWrite != 0 && r.Method != http.MethodGet {
		w.WriteHeader(f.rejectWrite)
		_, _ = w.Write([]byte(`{"code":"23514","message":"new row for relation \"magazyn\" violates check constraint \"magazyn_ilosc_check\""}`))
		return
	}

	q := r.URL.Query()
	switch r.Method {
	case http.MethodGet:
		rows := append([]map[string]any(nil), f.rows...)
		if order := q.Get("order"); order != "" {
			if f.rejectOrder {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"42703","message":"column magazyn.data_dodania does not exist"}`))
				return
			}
			col := strings.TrimSuffix(order, ".desc")
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i][col].(string) > rows[j][col].(string)
			})
		}
		if q.Get("limit") == "1" && len(rows) > 1 {
			rows = rows[:1]
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	case http.MethodPost:
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		payload["id"] = f.nextID
		f.nextID++
		f.rows = append(f.rows, payload)
		w.WriteHeader(http.StatusCreated)
	case http.MethodPatch:
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		for _, rw := range f.rows {
			if matchID(rw, q.Get("id")) {
				for k, v := range payload {
					rw[k] = v
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		kept := f.rows[:0]
		for _, rw := range f.rows {
			if !matchID(rw, q.Get("id")) {
				kept = append(kept, rw)
			}
		}
		f.rows = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakePostgREST) snapshot() ([]map[string]any, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.rows...), append([]string(nil), f.requests...)
}

func matchID(rw map[string]any, filter string) bool {
	id := strings.TrimPrefix(filter, "eq.")
	switch v := rw["id"].(type) {
	case int:
		return strconv.Itoa(v) == id
	case float64:
		return strconv.Itoa(int(v)) == id
	}
	return false
}

func newTestRepository(t *testing.T, fake *fakePostgREST, key string) *Repository {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	repo, err := NewRepository(zap.NewNop(), Config{URL: srv.URL + "/", APIKey: key, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return repo
}

func TestRepository_InsertThenSelect(t *testing.T) {
	ctx := context.Background()
	fake := newFakePostgREST()
	repo := newTestRepository(t, fake, testKey)

	err := repo.Insert(ctx, repository.NewItem{
		Name:      "Hammer",
		Quantity:  5,
		UnitPrice: decimal.RequireFromString("12.50"),
		AddedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// дата уходит строкой, цена числом
	rows, _ := fake.snapshot()
	require.Equal(t, "2024-01-15", rows[0]["data_dodania"])
	require.Equal(t, 12.5, rows[0]["cena"])

	items, err := repo.SelectOrdered(ctx, repository.ColumnAddedAt, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "1", items[0].ID)
	require.Equal(t, "Hammer", items[0].Name)
	require.Equal(t, 5, items[0].Quantity)
	require.Equal(t, "12.50", items[0].UnitPrice.StringFixed(2))
	require.Equal(t, "2024-01-15", repository.FormatDate(items[0].AddedAt))

	_, requests := fake.snapshot()
	require.Contains(t, requests, "GET order=data_dodania.desc&select=%2A")
}

func TestRepository_EmptyTableReturnsEmptySlice(t *testing.T) {
	repo := newTestRepository(t, newFakePostgREST(), testKey)

	items, err := repo.SelectAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestRepository_OrderRejected(t *testing.T) {
	fake := newFakePostgREST()
	fake.rejectOrder = true
	repo := newTestRepository(t, fake, testKey)

	_, err := repo.SelectOrdered(context.Background(), repository.ColumnAddedAt, true)
	require.True(t, errors.Is(err, repository.ErrOrderingUnsupported), "got %v", err)
	require.Contains(t, err.Error(), "42703")

	_, err = repo.SelectAll(context.Background())
	require.NoError(t, err)
}

func TestRepository_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		failAll int
	}{
		{name: "wrong key", key: "bad", failAll: 0},
		{name: "server error", key: testKey, failAll: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakePostgREST()
			fake.failAll = tt.failAll
			repo := newTestRepository(t, fake, tt.key)

			// даже запрос с сортировкой не маскирует недоступность
			_, err := repo.SelectOrdered(context.Background(), repository.ColumnAddedAt, true)
			require.True(t, errors.Is(err, repository.ErrStoreUnavailable), "got %v", err)
			require.False(t, errors.Is(err, repository.ErrOrderingUnsupported))

			require.ErrorIs(t, repo.Ping(context.Background()), repository.ErrStoreUnavailable)
		})
	}
}

func TestRepository_WriteRejected(t *testing.T) {
	ctx := context.Background()
	row := repository.NewItem{Name: "Hammer", Quantity: 5, UnitPrice: decimal.NewFromInt(1), AddedAt: time.Now()}

	tests := []struct {
		name        string
		status      int
		expectedErr error
	}{
		{name: "check violation", status: http.StatusBadRequest, expectedErr: repository.ErrRejected},
		{name: "conflict", status: http.StatusConflict, expectedErr: repository.ErrRejected},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, expectedErr: repository.ErrRejected},
		{name: "server error stays unavailable", status: http.StatusBadGateway, expectedErr: repository.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakePostgREST()
			fake.rejectWrite = tt.status
			repo := newTestRepository(t, fake, testKey)

			err := repo.Insert(ctx, row)
			require.True(t, errors.Is(err, tt.expectedErr), "got %v", err)

			err = repo.UpdateQuantity(ctx, "1", 2)
			require.True(t, errors.Is(err, tt.expectedErr), "got %v", err)

			// чтение при этом работает
			items, err := repo.SelectAll(ctx)
			require.NoError(t, err)
			require.Empty(t, items)
		})
	}
}

func TestRepository_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	repo, err := NewRepository(zap.NewNop(), Config{URL: url, APIKey: testKey})
	require.NoError(t, err)

	_, err = repo.SelectAll(context.Background())
	require.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakePostgREST()
	repo := newTestRepository(t, fake, testKey)

	require.NoError(t, repo.Insert(ctx, repository.NewItem{Name: "Saw", Quantity: 3, UnitPrice: decimal.NewFromInt(40), AddedAt: time.Now()}))

	require.NoError(t, repo.UpdateQuantity(ctx, "1", 2))
	items, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, items[0].Quantity)

	require.NoError(t, repo.Delete(ctx, "1"))
	require.NoError(t, repo.Delete(ctx, "1"))
	_, requests := fake.snapshot()
	require.Contains(t, requests, "DELETE id=eq.1")

	items, err = repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestNewRepository_Validation(t *testing.T) {
	_, err := NewRepository(zap.NewNop(), Config{URL: "not a url", APIKey: testKey})
	require.Error(t, err)

	_, err = NewRepository(zap.NewNop(), Config{URL: "https://xyz.supabase.co", APIKey: ""})
	require.Error(t, err)
}
