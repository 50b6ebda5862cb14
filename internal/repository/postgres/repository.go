package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shestoi/magazyn/internal/repository"
)

// Repository реализует repository.Table напрямую через PostgreSQL
// (self-hosted база или прямое подключение к Supabase)
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepository создаёт репозиторий поверх пула; table по умолчанию magazyn
func NewRepository(pool *pgxpool.Pool, table string) *Repository {
	if table == "" {
		table = repository.DefaultTable
	}
	return &Repository{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// Колонки приводятся к text: драйвер не зависит от того, хранится ли цена
// как numeric или float8, а дата как date или text.
func (r *Repository) selectSQL() string {
	return fmt.Sprintf(`SELECT id::text, nazwa, ilosc, cena::text, data_dodania::text FROM %s`, r.table)
}

// SelectOrdered выполняет SELECT ... ORDER BY column
func (r *Repository) SelectOrdered(ctx context.Context, column string, descending bool) ([]repository.Item, error) {
	direction := "ASC"
	if descending {
		direction = "DESC"
	}
	query := r.selectSQL() + " ORDER BY " + pgx.Identifier{column}.Sanitize() + " " + direction

	items, err := r.query(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// сервер ответил, но отклонил запрос (undefined_column и т.п.)
			return nil, fmt.Errorf("%w: %s (%s)", repository.ErrOrderingUnsupported, pgErr.Message, pgErr.Code)
		}
		return nil, classify(err)
	}
	return items, nil
}

// SelectAll выполняет SELECT без сортировки
func (r *Repository) SelectAll(ctx context.Context) ([]repository.Item, error) {
	items, err := r.query(ctx, r.selectSQL())
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (r *Repository) query(ctx context.Context, query string) ([]repository.Item, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.Item, 0)
	for rows.Next() {
		var (
			item      repository.Item
			unitPrice string
			addedAt   string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &unitPrice, &addedAt); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("row %s: invalid price %q: %w", item.ID, unitPrice, err)
		}
		if item.AddedAt, err = repository.ParseDate(addedAt); err != nil {
			return nil, fmt.Errorf("row %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Insert добавляет строку; id назначает IDENTITY колонка
func (r *Repository) Insert(ctx context.Context, item repository.NewItem) error {
	if err := checkQuantityRange(item.Quantity); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (nazwa, ilosc, cena, data_dodania) VALUES ($1, $2, $3::numeric, $4::date)`, r.table),
		item.Name, item.Quantity, item.UnitPrice.String(), repository.FormatDate(item.AddedAt))
	return classify(err)
}

// UpdateQuantity выполняет UPDATE ... WHERE id = $1
func (r *Repository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if err := checkQuantityRange(quantity); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET ilosc = $1 WHERE id::text = $2`, r.table),
		quantity, id)
	return classify(err)
}

// Delete выполняет DELETE; ноль затронутых строк не ошибка
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id::text = $1`, r.table),
		id)
	return classify(err)
}

// Ping проверяет соединение и существование таблицы
func (r *Repository) Ping(ctx context.Context) error {
	var n int64
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM (SELECT 1 FROM %s LIMIT 1) t`, r.table)).Scan(&n)
	return classify(err)
}

// classify оборачивает ошибку драйвера: SQLSTATE классов 22 (data exception)
// и 23 (integrity constraint) дают ErrRejected, остальное ErrStoreUnavailable
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23") {
			return fmt.Errorf("%w: %s (%s)", repository.ErrRejected, strings.TrimSpace(pgErr.Message), pgErr.Code)
		}
		return fmt.Errorf("%w: %s (%s)", repository.ErrStoreUnavailable, strings.TrimSpace(pgErr.Message), pgErr.Code)
	}
	return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
}

// checkQuantityRange отсекает значения, которые pgx не закодирует в int4 колонки ilosc
func checkQuantityRange(quantity int) error {
	if quantity > math.MaxInt32 || quantity < math.MinInt32 {
		return fmt.Errorf("%w: quantity %d out of int4 range", repository.ErrRejected, quantity)
	}
	return nil
}
