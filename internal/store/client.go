// Package store содержит клиент таблицы инвентаря: чтение с fallback,
// добавление строки и применение решений policy.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/policy"
	"github.com/shestoi/magazyn/internal/repository"
)

// ErrInvalidItem возвращается InsertItem для строки, которая нарушила бы
// инварианты таблицы (quantity >= 1, unit_price >= 0)
var ErrInvalidItem = errors.New("invalid item")

const instrumentationName = "github.com/shestoi/magazyn/internal/store"

// Client выполняет операции над таблицей через repository.Table.
// Один Client создаётся при старте и используется всеми запросами.
type Client struct {
	table     repository.Table
	lister    *FallbackLister
	logger    *zap.Logger
	tracer    trace.Tracer
	fallbacks metric.Int64Counter
}

// NewClient создаёт клиент поверх драйвера таблицы
func NewClient(table repository.Table, logger *zap.Logger) *Client {
	fallbacks, err := otel.Meter(instrumentationName).Int64Counter(
		"magazyn.store.list_fallbacks",
		metric.WithDescription("Listings that fell back to the unordered query"),
	)
	if err != nil {
		logger.Warn("Failed to create fallback counter", zap.Error(err))
	}

	c := &Client{
		table:     table,
		lister:    NewFallbackLister(table, logger),
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		fallbacks: fallbacks,
	}
	c.lister.onFallback = func(ctx context.Context) {
		if c.fallbacks != nil {
			c.fallbacks.Add(ctx, 1)
		}
	}
	return c
}

// ListItems возвращает все строки, новые первыми, если хранилище умеет сортировать
func (c *Client) ListItems(ctx context.Context) ([]repository.Item, error) {
	ctx, span := c.tracer.Start(ctx, "store.ListItems")
	defer span.End()

	items, err := c.lister.List(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("magazyn.items", len(items)))
	return items, nil
}

// InsertItem добавляет строку. Количество и цена проверяются до обращения к таблице,
// имя проверяет вызывающий.
func (c *Client) InsertItem(ctx context.Context, name string, quantity int, unitPrice decimal.Decimal, addedAt time.Time) error {
	ctx, span := c.tracer.Start(ctx, "store.InsertItem")
	defer span.End()

	switch {
	case quantity < 1:
		err := fmt.Errorf("%w: %w: quantity %d must be at least 1", ErrInvalidItem, policy.ErrInvalidQuantity, quantity)
		recordError(span, err)
		return err
	case unitPrice.IsNegative():
		err := fmt.Errorf("%w: unit price %s must not be negative", ErrInvalidItem, unitPrice)
		recordError(span, err)
		return err
	}

	err := c.table.Insert(ctx, repository.NewItem{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		AddedAt:   repository.TruncateDate(addedAt),
	})
	if err != nil {
		recordError(span, err)
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// ApplyQuantityChange выставляет новое количество; при newQuantity <= 0 удаляет строку.
// Удаление отсутствующей строки не является ошибкой.
func (c *Client) ApplyQuantityChange(ctx context.Context, id string, newQuantity int) error {
	if newQuantity <= 0 {
		return c.Apply(ctx, id, policy.Retire())
	}
	return c.Apply(ctx, id, policy.SetQuantity(newQuantity))
}

// Apply выполняет решение policy над строкой id.
// Retire всегда выполняется прямым удалением.
func (c *Client) Apply(ctx context.Context, id string, decision policy.Decision) error {
	ctx, span := c.tracer.Start(ctx, "store.Apply", trace.WithAttributes(
		attribute.String("magazyn.item_id", id),
		attribute.String("magazyn.decision", decision.String()),
	))
	defer span.End()

	var err error
	switch decision.Kind {
	case policy.KindRetire:
		err = c.table.Delete(ctx, id)
	case policy.KindSetQuantity:
		if decision.Quantity <= 0 {
			err = c.table.Delete(ctx, id)
			break
		}
		err = c.table.UpdateQuantity(ctx, id, decision.Quantity)
	default:
		err = fmt.Errorf("unknown decision %s", decision)
	}
	if err != nil {
		recordError(span, err)
		return fmt.Errorf("apply %s to item %s: %w", decision, id, err)
	}

	c.logger.Debug("Decision applied",
		zap.String("item_id", id),
		zap.Stringer("decision", decision),
	)
	return nil
}

// Ping проверяет доступность хранилища
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "store.Ping")
	defer span.End()

	if err := c.table.Ping(ctx); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
