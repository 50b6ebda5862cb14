package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Имена таблицы и колонок в удалённом хранилище
const (
	DefaultTable = "magazyn"

	ColumnID        = "id"
	ColumnName      = "nazwa"
	ColumnQuantity  = "ilosc"
	ColumnUnitPrice = "cena"
	ColumnAddedAt   = "data_dodania"
)

// DateLayout формат даты поступления при передаче в хранилище
const DateLayout = time.DateOnly

// Item представляет одну строку инвентаря.
// Сохранённая строка всегда имеет Quantity > 0.
type Item struct {
	// ID назначается хранилищем и не переиспользуется
	ID        string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	// AddedAt календарная дата (полночь UTC)
	AddedAt time.Time
}

// Value возвращает стоимость позиции: Quantity * UnitPrice (без округления)
func (i Item) Value() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewItem содержит поля новой строки; ID назначит хранилище
type NewItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	AddedAt   time.Time
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Table --dir=. --output=./mocks --outpkg=mocks

// Table определяет доступ к удалённой таблице инвентаря.
// Реализации сами классифицируют свои ошибки в ErrStoreUnavailable / ErrOrderingUnsupported / ErrRejected.
type Table interface {
	// SelectOrdered возвращает все строки, отсортированные по column.
	// Если хранилище отклоняет сортировку, возвращает ErrOrderingUnsupported.
	SelectOrdered(ctx context.Context, column string, descending bool) ([]Item, error)

	// SelectAll возвращает все строки без сортировки
	SelectAll(ctx context.Context) ([]Item, error)

	// Insert добавляет строку
	Insert(ctx context.Context, item NewItem) error

	// UpdateQuantity записывает новое количество строки id
	UpdateQuantity(ctx context.Context, id string, quantity int) error

	// Delete удаляет строку id; отсутствие строки не является ошибкой
	Delete(ctx context.Context, id string) error

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error
}

var (
	// ErrStoreUnavailable возвращается при сетевой ошибке, ошибке авторизации
	// или ошибке сервера хранилища
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrOrderingUnsupported возвращается, когда хранилище не может выполнить
	// запрос с сортировкой (колонки нет или сортировка отклонена)
	ErrOrderingUnsupported = errors.New("ordering unsupported")

	// ErrRejected возвращается, когда хранилище доступно, но отклонило запись
	// (нарушение ограничения, значение вне диапазона колонки)
	ErrRejected = errors.New("rejected by store")
)

// FormatDate сериализует дату поступления в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает YYYY-MM-DD. Значения с временем (timestamp в текстовой
// колонке) обрезаются до даты.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Today возвращает текущую дату UTC без времени
func Today() time.Time {
	return TruncateDate(time.Now())
}

// TruncateDate отбрасывает время и приводит к UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
