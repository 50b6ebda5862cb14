package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/shestoi/magazyn/internal/repository"
)

// MemoryRepository реализует repository.Table в памяти процесса.
// Используется для локальной разработки (STORE_DRIVER=memory) и тестов.
type MemoryRepository struct {
	mu     sync.RWMutex
	rows   map[string]repository.Item
	nextID int64
}

// NewMemoryRepository создаёт пустую таблицу; id начинаются с 1
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rows:   make(map[string]repository.Item),
		nextID: 1,
	}
}

// SelectOrdered сортирует по поддерживаемым колонкам (data_dodania, nazwa, id).
// Для остальных колонок возвращает ErrOrderingUnsupported, как хранилище без такой колонки.
func (r *MemoryRepository) SelectOrdered(ctx context.Context, column string, descending bool) ([]repository.Item, error) {
	var less func(a, b repository.Item) bool
	switch column {
	case repository.ColumnAddedAt:
		less = func(a, b repository.Item) bool { return a.AddedAt.Before(b.AddedAt) }
	case repository.ColumnName:
		less = func(a, b repository.Item) bool { return a.Name < b.Name }
	case repository.ColumnID:
		less = func(a, b repository.Item) bool { return idNum(a.ID) < idNum(b.ID) }
	default:
		return nil, fmt.Errorf("%w: column %q does not exist", repository.ErrOrderingUnsupported, column)
	}

	items, _ := r.SelectAll(ctx)
	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
	return items, nil
}

// SelectAll возвращает копию всех строк в порядке вставки
func (r *MemoryRepository) SelectAll(ctx context.Context) ([]repository.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]repository.Item, 0, len(r.rows))
	for _, item := range r.rows {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return idNum(items[i].ID) < idNum(items[j].ID) })
	return items, nil
}

// Insert назначает следующий id; удалённые id не переиспользуются
func (r *MemoryRepository) Insert(ctx context.Context, item repository.NewItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := strconv.FormatInt(r.nextID, 10)
	r.nextID++

	r.rows[id] = repository.Item{
		ID:        id,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		AddedAt:   repository.TruncateDate(item.AddedAt),
	}
	return nil
}

// UpdateQuantity меняет количество; отсутствующий id молча пропускается,
// как UPDATE без совпавших строк
func (r *MemoryRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.rows[id]
	if !ok {
		return nil
	}
	item.Quantity = quantity
	r.rows[id] = item
	return nil
}

// Delete удаляет строку; повторное удаление не ошибка
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, id)
	return nil
}

// Ping всегда успешен
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func idNum(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}
