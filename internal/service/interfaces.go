package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shestoi/magazyn/internal/policy"
	"github.com/shestoi/magazyn/internal/repository"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ItemStore --dir=. --output=./mocks --outpkg=mocks

// ItemStore определяет операции над таблицей инвентаря, нужные сервису.
// Реализуется store.Client.
type ItemStore interface {
	// ListItems возвращает все строки (пустой срез для пустой таблицы)
	ListItems(ctx context.Context) ([]repository.Item, error)

	// InsertItem добавляет строку
	InsertItem(ctx context.Context, name string, quantity int, unitPrice decimal.Decimal, addedAt time.Time) error

	// Apply выполняет решение policy над строкой id
	Apply(ctx context.Context, id string, decision policy.Decision) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=StockEventPublisher --dir=. --output=./mocks --outpkg=mocks

// StockEventPublisher публикует события изменения остатков
type StockEventPublisher interface {
	PublishStockEvent(ctx context.Context, event StockEvent) error
}
