package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/policy"
	"github.com/shestoi/magazyn/internal/repository"
	"github.com/shestoi/magazyn/platform/observability"
)

var (
	// ErrInvalidInput возвращается при некорректных данных новой позиции
	ErrInvalidInput = errors.New("invalid input")

	// ErrItemNotFound возвращается, если строки с таким id нет
	ErrItemNotFound = errors.New("item not found")
)

// InventoryService содержит бизнес-логику работы с инвентарём.
// Одно действие пользователя = одна операция над хранилищем + событие.
type InventoryService struct {
	store     ItemStore
	publisher StockEventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewInventoryService создаёт новый экземпляр InventoryService
func NewInventoryService(store ItemStore, publisher StockEventPublisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ListItems возвращает все позиции
func (s *InventoryService) ListItems(ctx context.Context) ([]repository.Item, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// AddItemInput содержит данные новой позиции
type AddItemInput struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	// AddedAt нулевое значение означает сегодня
	AddedAt time.Time
}

// AddItem проверяет данные и добавляет позицию
func (s *InventoryService) AddItem(ctx context.Context, input AddItemInput) error {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	case input.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, input.Quantity)
	case input.UnitPrice.IsNegative():
		return fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidInput, input.UnitPrice)
	}

	addedAt := input.AddedAt
	if addedAt.IsZero() {
		addedAt = s.now()
	}
	addedAt = repository.TruncateDate(addedAt)

	if err := s.store.InsertItem(ctx, name, input.Quantity, input.UnitPrice, addedAt); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	observability.L(ctx, s.logger).Info("Item added",
		zap.String("name", name),
		zap.Int("quantity", input.Quantity),
		zap.String("unit_price", input.UnitPrice.StringFixed(2)),
		zap.String("added_at", repository.FormatDate(addedAt)),
	)

	s.publish(ctx, StockEvent{
		Type:      EventItemAdded,
		Name:      name,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
	})
	return nil
}

// DepleteItemInput содержит данные списания
type DepleteItemInput struct {
	ID     string
	Amount int
}

// DepleteItem списывает Amount единиц позиции ID.
// Текущий остаток читается заново из хранилища.
func (s *InventoryService) DepleteItem(ctx context.Context, input DepleteItemInput) (policy.Decision, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return policy.Decision{}, fmt.Errorf("failed to read item %s: %w", input.ID, err)
	}

	item, ok := findItem(items, input.ID)
	if !ok {
		return policy.Decision{}, fmt.Errorf("%w: %s", ErrItemNotFound, input.ID)
	}

	decision, err := policy.ComputeQuantityUpdate(item.Quantity, input.Amount)
	if err != nil {
		return policy.Decision{}, err
	}

	if err := s.store.Apply(ctx, item.ID, decision); err != nil {
		return policy.Decision{}, fmt.Errorf("failed to deplete item %s: %w", item.ID, err)
	}

	observability.L(ctx, s.logger).Info("Item depleted",
		zap.String("item_id", item.ID),
		zap.Int("amount", input.Amount),
		zap.Stringer("decision", decision),
	)

	event := StockEvent{
		Type:      EventItemDepleted,
		ItemID:    item.ID,
		Name:      item.Name,
		Quantity:  decision.Quantity,
		UnitPrice: item.UnitPrice,
	}
	if decision.Kind == policy.KindRetire {
		event.Type = EventItemRetired
		event.Quantity = 0
	}
	s.publish(ctx, event)

	return decision, nil
}

// RemoveItem удаляет позицию целиком. Повторное удаление не ошибка.
func (s *InventoryService) RemoveItem(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidInput)
	}

	if err := s.store.Apply(ctx, id, policy.ComputeFullRemoval()); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", id, err)
	}

	observability.L(ctx, s.logger).Info("Item removed", zap.String("item_id", id))

	s.publish(ctx, StockEvent{Type: EventItemRetired, ItemID: id})
	return nil
}

// Summary сводка по инвентарю
type Summary struct {
	ItemCount     int
	TotalQuantity int
	// TotalValue сумма quantity * unit_price, округлённая до 2 знаков
	TotalValue decimal.Decimal
}

// Summary считает количество позиций, единиц и общую стоимость
func (s *InventoryService) Summary(ctx context.Context) (Summary, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list items: %w", err)
	}
	return Summarize(items), nil
}

// Summarize считает сводку по уже прочитанным позициям
func Summarize(items []repository.Item) Summary {
	summary := Summary{ItemCount: len(items), TotalValue: decimal.Zero}
	for _, item := range items {
		summary.TotalQuantity += item.Quantity
		summary.TotalValue = summary.TotalValue.Add(item.Value())
	}
	summary.TotalValue = summary.TotalValue.Round(2)
	return summary
}

func (s *InventoryService) publish(ctx context.Context, event StockEvent) {
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.PublishStockEvent(ctx, event); err != nil {
		observability.L(ctx, s.logger).Warn("Failed to publish stock event",
			zap.String("event_type", event.Type),
			zap.String("item_id", event.ItemID),
			zap.Error(err),
		)
	}
}

func findItem(items []repository.Item, id string) (repository.Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return repository.Item{}, false
}
