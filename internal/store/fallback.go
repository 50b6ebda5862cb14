package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/repository"
)

// FallbackLister читает таблицу в два шага: сначала с сортировкой по
// data_dodania DESC, при любой ошибке этого шага без сортировки.
// Ошибка второго шага возвращается вызывающему.
type FallbackLister struct {
	table      repository.Table
	logger     *zap.Logger
	column     string
	descending bool
	// onFallback вызывается при переходе ко второму шагу
	onFallback func(ctx context.Context)
}

// NewFallbackLister создаёт стратегию с сортировкой по дате поступления (новые первыми)
func NewFallbackLister(table repository.Table, logger *zap.Logger) *FallbackLister {
	return &FallbackLister{
		table:      table,
		logger:     logger,
		column:     repository.ColumnAddedAt,
		descending: true,
	}
}

// List возвращает все строки. Пустая таблица даёт пустой не-nil срез.
func (l *FallbackLister) List(ctx context.Context) ([]repository.Item, error) {
	items, err := l.table.SelectOrdered(ctx, l.column, l.descending)
	if err == nil {
		return nonNil(items), nil
	}

	l.logger.Warn("Ordered listing failed, falling back to unordered",
		zap.String("order_by", l.column),
		zap.Bool("ordering_unsupported", errors.Is(err, repository.ErrOrderingUnsupported)),
		zap.Error(err),
	)
	if l.onFallback != nil {
		l.onFallback(ctx)
	}

	items, err = l.table.SelectAll(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		return nil, err
	}
	return nonNil(items), nil
}

func nonNil(items []repository.Item) []repository.Item {
	if items == nil {
		return []repository.Item{}
	}
	return items
}
