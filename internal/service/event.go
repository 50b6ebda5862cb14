package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы событий изменения остатков
const (
	EventItemAdded    = "stock.item_added"
	EventItemDepleted = "stock.item_depleted"
	EventItemRetired  = "stock.item_retired"
)

// StockEvent доменное событие изменения строки инвентаря.
// Для item_retired Quantity = 0, Name и UnitPrice могут быть пустыми
// (удаление по id без чтения строки).
type StockEvent struct {
	Type       string
	ItemID     string
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	OccurredAt time.Time
}
