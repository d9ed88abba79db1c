// Package orderrepo persists the order aggregate: one row per order in
// "orders" with line items as jsonb, and the append-only status history in
// "order_history".
package orderrepo

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
)

// OrderDTO is the "orders" row. Version is compared on every update.
type OrderDTO struct {
	ID        uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	BuyerID   string                           `gorm:"type:varchar(255);not null;index"`
	SellerID  string                           `gorm:"type:varchar(255);not null;index:idx_orders_seller_status"`
	Status    string                           `gorm:"type:varchar(32);not null;index:idx_orders_seller_status"`
	Items     datatypes.JSONSlice[LineItemDTO] `gorm:"not null"`
	Remainder datatypes.JSONSlice[LineItemDTO]
	Version   int64                            `gorm:"not null"`
	PlacedAt  time.Time                        `gorm:"not null;index"`
	History   []HistoryDTO                     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the items and remainder json arrays.
type LineItemDTO struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// HistoryDTO is one "order_history" row. Seq orders the entries of an order.
type HistoryDTO struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_history_seq"`
	Seq     int       `gorm:"not null;uniqueIndex:idx_order_history_seq"`
	Status  string    `gorm:"type:varchar(32);not null"`
	ActorID string    `gorm:"type:varchar(255);not null"`
	At      time.Time `gorm:"not null"`
}

func (HistoryDTO) TableName() string {
	return "order_history"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:        s.ID.Bytes(),
		BuyerID:   s.BuyerID,
		SellerID:  s.SellerID,
		Status:    s.Status.String(),
		Items:     itemsFromDomain(s.Items),
		Remainder: itemsFromDomain(s.Remainder),
		Version:   s.Version,
		PlacedAt:  o.PlacedAt(),
		History:   historyFromDomain(s.ID, s.History, 0),
	}
}

func itemsFromDomain(items []order.LineItem) datatypes.JSONSlice[LineItemDTO] {
	out := make(datatypes.JSONSlice[LineItemDTO], 0, len(items))
	for _, li := range items {
		out = append(out, LineItemDTO{
			ProductID: li.ProductID(),
			Quantity:  li.Quantity(),
			UnitPrice: li.UnitPrice().Decimal(),
		})
	}
	return out
}

// historyFromDomain maps entries starting at index from, so that an update
// only inserts what was appended since the last write.
func historyFromDomain(orderID kernel.UUID, history []order.HistoryEntry, from int) []HistoryDTO {
	if from >= len(history) {
		return nil
	}
	out := make([]HistoryDTO, 0, len(history)-from)
	for i := from; i < len(history); i++ {
		out = append(out, HistoryDTO{
			OrderID: orderID.Bytes(),
			Seq:     i,
			Status:  history[i].Status.String(),
			ActorID: history[i].ActorID,
			At:      history[i].At,
		})
	}
	return out
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}
	remainder, err := itemsToDomain(dto.Remainder)
	if err != nil {
		return nil, err
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		s, parseErr := order.ParseStatus(h.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		history = append(history, order.HistoryEntry{Status: s, ActorID: h.ActorID, At: h.At.UTC()})
	}

	return order.RestoreOrder(order.Snapshot{
		ID:        id,
		BuyerID:   dto.BuyerID,
		SellerID:  dto.SellerID,
		Items:     items,
		Remainder: remainder,
		Status:    status,
		History:   history,
		Version:   dto.Version,
	})
}

func itemsToDomain(dtos []LineItemDTO) ([]order.LineItem, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	items := make([]order.LineItem, 0, len(dtos))
	var errList []error
	for _, dto := range dtos {
		price, err := kernel.NewMoney(dto.UnitPrice)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		li, err := order.NewLineItem(dto.ProductID, dto.Quantity, price)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		items = append(items, li)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return items, nil
}
