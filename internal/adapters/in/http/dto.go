package http

import (
	"errors"
	"time"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/queries"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

type LineItem struct {
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	UnitPrice kernel.Money `json:"unitPrice"`
}

// FulfilledItem names a product and how many units of it ship.
type FulfilledItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	SellerID string     `json:"sellerId"`
	Items    []LineItem `json:"items"`
}

type TransitionRequest struct {
	Intent string          `json:"intent"`
	Items  []FulfilledItem `json:"items,omitempty"`
}

type PartialFulfillmentRequest struct {
	Items []FulfilledItem `json:"items"`
}

// Attachment data travels base64 encoded, which encoding/json decodes into []byte.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data"`
}

type RefundRequest struct {
	Reason      string       `json:"reason"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type RefundResponseRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note,omitempty"`
}

type AssignCourierRequest struct {
	CourierID kernel.UUID `json:"courierId"`
}

type CourierStatusUpdate struct {
	Status string `json:"status"`
}

type HistoryEntry struct {
	Status  order.Status `json:"status"`
	ActorID string       `json:"actorId"`
	At      time.Time    `json:"at"`
}

type Order struct {
	ID        kernel.UUID  `json:"id"`
	BuyerID   string       `json:"buyerId"`
	SellerID  string       `json:"sellerId"`
	Status    order.Status `json:"status"`
	Version   int64        `json:"version"`
	Total     kernel.Money `json:"total"`
	Items     []LineItem   `json:"items"`
	Remainder []LineItem   `json:"remainder,omitempty"`
	PlacedAt  time.Time    `json:"placedAt"`
}

type RefundCase struct {
	ID          kernel.UUID  `json:"id"`
	State       refund.State `json:"state"`
	Reason      string       `json:"reason"`
	Amount      kernel.Money `json:"amount"`
	Evidence    []string     `json:"evidence,omitempty"`
	RequestedBy string       `json:"requestedBy"`
	RequestedAt time.Time    `json:"requestedAt"`
	ApproverID  string       `json:"approverId,omitempty"`
	Note        string       `json:"note,omitempty"`
	ResolvedAt  *time.Time   `json:"resolvedAt,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

type Refund struct {
	OrderID     kernel.UUID  `json:"orderId"`
	OrderStatus order.Status `json:"orderStatus"`
	Found       bool         `json:"found"`
	Case        *RefundCase  `json:"case,omitempty"`
}

type CourierStatus struct {
	OrderID     kernel.UUID      `json:"orderId"`
	Found       bool             `json:"found"`
	Status      logistics.Status `json:"status"`
	CourierID   *kernel.UUID     `json:"courierId,omitempty"`
	CourierName string           `json:"courierName"`
}

func (r PlaceOrderRequest) toDomain() ([]order.LineItem, error) {
	if len(r.Items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	items := make([]order.LineItem, 0, len(r.Items))
	var errList []error
	for _, li := range r.Items {
		item, err := order.NewLineItem(li.ProductID, li.Quantity, li.UnitPrice)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return items, nil
}

// fulfilledToDomain builds line items without a price; the order prices
// fulfilled lines from its own items.
func fulfilledToDomain(fulfilled []FulfilledItem) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(fulfilled))
	var errList []error
	for _, f := range fulfilled {
		item, err := order.NewLineItem(f.ProductID, f.Quantity, kernel.Zero())
		if err != nil {
			errList = append(errList, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return items, nil
}

func (a Attachment) toDomain() ports.Attachment {
	return ports.Attachment{Name: a.Name, ContentType: a.ContentType, Data: a.Data}
}

func lineItemsFromDomain(items []order.LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, 0, len(items))
	for _, li := range items {
		out = append(out, LineItem{ProductID: li.ProductID(), Quantity: li.Quantity(), UnitPrice: li.UnitPrice()})
	}
	return out
}

func orderFromDomain(s order.Snapshot) Order {
	total := kernel.Zero()
	for _, li := range s.Items {
		total = total.Add(li.Subtotal())
	}

	dto := Order{
		ID:        s.ID,
		BuyerID:   s.BuyerID,
		SellerID:  s.SellerID,
		Status:    s.Status,
		Version:   s.Version,
		Total:     total,
		Items:     lineItemsFromDomain(s.Items),
		Remainder: lineItemsFromDomain(s.Remainder),
	}
	if len(s.History) > 0 {
		dto.PlacedAt = s.History[0].At
	}
	return dto
}

func ordersFromDomain(snapshots []order.Snapshot) []Order {
	out := make([]Order, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, orderFromDomain(s))
	}
	return out
}

func historyFromDomain(history []order.HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history))
	for _, h := range history {
		out = append(out, HistoryEntry{Status: h.Status, ActorID: h.ActorID, At: h.At})
	}
	return out
}

func refundCaseFromDomain(s refund.Snapshot) *RefundCase {
	dto := &RefundCase{
		ID:          s.ID,
		State:       s.State,
		Reason:      s.Reason,
		Amount:      s.Amount,
		Evidence:    s.Evidence,
		RequestedBy: s.RequestedBy,
		RequestedAt: s.RequestedAt,
		CompletedAt: s.CompletedAt,
	}
	if s.Resolution != nil {
		at := s.Resolution.At
		dto.ApproverID = s.Resolution.ApproverID
		dto.Note = s.Resolution.Note
		dto.ResolvedAt = &at
	}
	return dto
}

func refundFromDomain(o order.Snapshot, c refund.Snapshot) Refund {
	return Refund{
		OrderID:     o.ID,
		OrderStatus: o.Status,
		Found:       true,
		Case:        refundCaseFromDomain(c),
	}
}

func refundStatusFromDomain(r queries.GetRefundStatusQueryResponse) Refund {
	dto := Refund{OrderID: r.OrderID, OrderStatus: r.OrderStatus, Found: r.Found}
	if r.Case != nil {
		dto.Case = refundCaseFromDomain(*r.Case)
	}
	return dto
}

func courierStatusFromDomain(r queries.GetCourierStatusQueryResponse) CourierStatus {
	return CourierStatus{
		OrderID:     r.OrderID,
		Found:       r.Found,
		Status:      r.Status,
		CourierID:   r.CourierID,
		CourierName: r.CourierName,
	}
}

func logisticsFromDomain(e logistics.Snapshot, courier *ports.CourierInfo) CourierStatus {
	dto := CourierStatus{
		OrderID:     e.OrderID,
		Found:       true,
		Status:      e.Status,
		CourierID:   e.CourierID,
		CourierName: queries.NotAssignedCourierName,
	}
	if courier != nil {
		dto.CourierName = courier.Name
	}
	return dto
}
