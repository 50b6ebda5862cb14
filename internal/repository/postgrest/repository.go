package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/repository"
)

// Config содержит параметры подключения к PostgREST (Supabase)
type Config struct {
	// URL адрес проекта, например https://xyz.supabase.co
	URL string
	// APIKey ключ anon/service_role; уходит в заголовки apikey и Authorization
	APIKey string
	// Table имя таблицы, по умолчанию magazyn
	Table string
	// Timeout таймаут HTTP клиента, по умолчанию 10s
	Timeout time.Duration
}

// Repository реализует repository.Table поверх PostgREST API
type Repository struct {
	logger   *zap.Logger
	tableURL string
	apiKey   string
	client   *http.Client
}

// NewRepository создаёт клиент таблицы. HTTP клиент создаётся один раз и
// переиспользуется всеми запросами.
func NewRepository(logger *zap.Logger, cfg Config) (*Repository, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid PostgREST URL %q", cfg.URL)
	}
	if cfg.APIKey == "" {
		return nil, errors.New("PostgREST API key is required")
	}

	table := cfg.Table
	if table == "" {
		table = repository.DefaultTable
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Repository{
		logger:   logger,
		tableURL: base.String() + "/rest/v1/" + url.PathEscape(table),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// row строка таблицы в JSON представлении PostgREST
type row struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"nazwa"`
	Quantity  int             `json:"ilosc"`
	UnitPrice decimal.Decimal `json:"cena"`
	AddedAt   string          `json:"data_dodania"`
}

func (r row) toItem() (repository.Item, error) {
	addedAt, err := repository.ParseDate(r.AddedAt)
	if err != nil {
		return repository.Item{}, err
	}
	return repository.Item{
		ID:        rawID(r.ID),
		Name:      r.Name,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		AddedAt:   addedAt,
	}, nil
}

// rawID приводит id (число или строку uuid) к строке
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// SelectOrdered выполняет GET ?select=*&order=<column>.desc
func (r *Repository) SelectOrdered(ctx context.Context, column string, descending bool) ([]repository.Item, error) {
	direction := "asc"
	if descending {
		direction = "desc"
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", column+"."+direction)
	return r.selectRows(ctx, q, true)
}

// SelectAll выполняет GET ?select=*
func (r *Repository) SelectAll(ctx context.Context) ([]repository.Item, error) {
	q := url.Values{}
	q.Set("select", "*")
	return r.selectRows(ctx, q, false)
}

func (r *Repository) selectRows(ctx context.Context, q url.Values, ordered bool) ([]repository.Item, error) {
	resp, err := r.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ordered); err != nil {
		return nil, err
	}

	var rows []row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: failed to decode rows: %v", repository.ErrStoreUnavailable, err)
	}

	items := make([]repository.Item, 0, len(rows))
	for _, rw := range rows {
		item, err := rw.toItem()
		if err != nil {
			return nil, fmt.Errorf("%w: row %s: %v", repository.ErrStoreUnavailable, rawID(rw.ID), err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Insert выполняет POST с Prefer: return=minimal
func (r *Repository) Insert(ctx context.Context, item repository.NewItem) error {
	payload := map[string]any{
		repository.ColumnName:      item.Name,
		repository.ColumnQuantity:  item.Quantity,
		repository.ColumnUnitPrice: json.Number(item.UnitPrice.String()),
		repository.ColumnAddedAt:   repository.FormatDate(item.AddedAt),
	}
	return r.mutate(ctx, http.MethodPost, nil, payload)
}

// UpdateQuantity выполняет PATCH ?id=eq.<id>
func (r *Repository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	payload := map[string]any{repository.ColumnQuantity: quantity}
	return r.mutate(ctx, http.MethodPatch, idFilter(id), payload)
}

// Delete выполняет DELETE ?id=eq.<id>. PostgREST отвечает 204 и когда строк не нашлось.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, http.MethodDelete, idFilter(id), nil)
}

// Ping запрашивает одну строку: проверяет сеть, ключ и существование таблицы
func (r *Repository) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", repository.ColumnID)
	q.Set("limit", "1")

	resp, err := r.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return checkStatus(resp, false)
}

func (r *Repository) mutate(ctx context.Context, method string, q url.Values, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := r.do(ctx, method, q, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, false); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (r *Repository) do(ctx context.Context, method string, q url.Values, body io.Reader) (*http.Response, error) {
	target := r.tableURL
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("PostgREST request failed",
			zap.String("method", method),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	return resp, nil
}

// apiError тело ошибки PostgREST
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// checkStatus классифицирует ответ.
// 401/403 и 5xx означают недоступность хранилища. Прочие 4xx на запросе с
// сортировкой означают, что сортировку выполнить нельзя (например, колонки нет).
// 400/409/422 на запись означают, что строку отклонило ограничение таблицы.
func checkStatus(resp *http.Response, ordered bool) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		detail = apiErr.Message
		if apiErr.Code != "" {
			detail = apiErr.Code + ": " + detail
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: unauthorized (status %d): %s", repository.ErrStoreUnavailable, resp.StatusCode, detail)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: server error (status %d): %s", repository.ErrStoreUnavailable, resp.StatusCode, detail)
	case ordered:
		return fmt.Errorf("%w: status %d: %s", repository.ErrOrderingUnsupported, resp.StatusCode, detail)
	case isWrite(resp.Request) && (resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity):
		return fmt.Errorf("%w: status %d: %s", repository.ErrRejected, resp.StatusCode, detail)
	default:
		return fmt.Errorf("%w: request rejected (status %d): %s", repository.ErrStoreUnavailable, resp.StatusCode, detail)
	}
}

func isWrite(req *http.Request) bool {
	if req == nil {
		return false
	}
	switch req.Method {
	case http.MethodPost, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func idFilter(id string) url.Values {
	q := url.Values{}
	q.Set(repository.ColumnID, "eq."+id)
	return q
}
