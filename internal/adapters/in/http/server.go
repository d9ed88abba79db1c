package http

import (
	"mime"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/queries"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// Handlers groups the use cases the HTTP server drives.
type Handlers struct {
	// Command handlers
	PlaceOrder          commands.PlaceOrderCommandHandler
	TransitionOrder     commands.TransitionOrderCommandHandler
	CancelOrder         commands.CancelOrderCommandHandler
	ProcessPartialOrder commands.ProcessPartialOrderCommandHandler
	RequestRefund       commands.RequestRefundCommandHandler
	RespondToRefund     commands.RespondToRefundCommandHandler
	ProcessRefund       commands.ProcessRefundCommandHandler
	AssignCourier       commands.AssignCourierCommandHandler
	UpdateCourierStatus commands.UpdateCourierStatusCommandHandler

	// Query handlers
	GetOrder          queries.GetOrderQueryHandler
	GetRefundStatus   queries.GetRefundStatusQueryHandler
	GetRefundEvidence queries.GetRefundEvidenceQueryHandler
	GetCourierStatus  queries.GetCourierStatusQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
}

// Server implements ServerInterface. It translates requests into commands
// and queries and renders their results; business rules live in the use cases.
type Server struct {
	h Handlers
}

var _ ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// PlaceOrder handles POST /api/v1/orders. The calling buyer owns the order.
func (s *Server) PlaceOrder(ctx echo.Context, params ActorParams) error {
	if _, err := requireRole(params, "place order", order.RoleBuyer); err != nil {
		return writeError(ctx, err)
	}

	var body PlaceOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	items, err := body.toDomain()
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), params.ActorID, body.SellerID, items)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, orderFromDomain(result.Order))
}

// ListBuyerOrders handles GET /api/v1/orders.
func (s *Server) ListBuyerOrders(ctx echo.Context, params ActorParams) error {
	if _, err := requireRole(params, "list buyer orders", order.RoleBuyer); err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewListBuyerOrdersQuery(params.ActorID)
	if err != nil {
		return writeError(ctx, err)
	}
	orders, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ordersFromDomain(orders))
}

// ListSellerOrders handles GET /api/v1/seller/orders?status=...
func (s *Server) ListSellerOrders(ctx echo.Context, params ListSellerOrdersParams) error {
	if _, err := requireRole(params.ActorParams, "list seller orders", order.RoleSeller); err != nil {
		return writeError(ctx, err)
	}

	var statuses []order.Status
	if params.Status != nil {
		for _, raw := range *params.Status {
			status, err := order.ParseStatus(raw)
			if err != nil {
				return writeError(ctx, err)
			}
			statuses = append(statuses, status)
		}
	}

	query, err := queries.NewListSellerOrdersQuery(params.ActorID, statuses...)
	if err != nil {
		return writeError(ctx, err)
	}
	orders, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ordersFromDomain(orders))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	snapshot, err := s.getOrder(ctx, orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(snapshot))
}

// GetOrderHistory handles GET /api/v1/orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context, orderID openapi_types.UUID) error {
	snapshot, err := s.getOrder(ctx, orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, historyFromDomain(snapshot.History))
}

func (s *Server) getOrder(ctx echo.Context, orderID openapi_types.UUID) (order.Snapshot, error) {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return order.Snapshot{}, err
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return order.Snapshot{}, err
	}
	return s.h.GetOrder.Handle(ctx.Request().Context(), query)
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, role, err := orderAndRole(orderID, params)
	if err != nil {
		return writeError(ctx, err)
	}

	var body TransitionRequest
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	var fulfilled []order.LineItem
	if len(body.Items) > 0 {
		if fulfilled, err = fulfilledToDomain(body.Items); err != nil {
			return writeError(ctx, err)
		}
	}

	cmd, err := commands.NewTransitionOrderCommand(id, params.ActorID, role, order.Intent(body.Intent), fulfilled)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.TransitionOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(result.Order))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, role, err := orderAndRole(orderID, params)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(id, params.ActorID, role)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(result.Order))
}

// ProcessPartialOrder handles POST /api/v1/orders/{orderId}/partial-fulfillment.
func (s *Server) ProcessPartialOrder(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	if _, err = requireRole(params, "partially fulfill", order.RoleSeller); err != nil {
		return writeError(ctx, err)
	}

	var body PartialFulfillmentRequest
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	fulfilled, err := fulfilledToDomain(body.Items)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewProcessPartialOrderCommand(id, params.ActorID, fulfilled)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.ProcessPartialOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(result.Order))
}

// RequestRefund handles POST /api/v1/orders/{orderId}/refund-request.
func (s *Server) RequestRefund(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	if _, err = requireRole(params, "request refund", order.RoleBuyer); err != nil {
		return writeError(ctx, err)
	}

	var body RefundRequest
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	attachments := make([]ports.Attachment, 0, len(body.Attachments))
	for _, a := range body.Attachments {
		attachments = append(attachments, a.toDomain())
	}

	cmd, err := commands.NewRequestRefundCommand(id, params.ActorID, body.Reason, attachments)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.RequestRefund.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, refundFromDomain(result.Order, result.Case))
}

// RespondToRefund handles POST /api/v1/orders/{orderId}/refund-response.
func (s *Server) RespondToRefund(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, role, err := orderAndRole(orderID, params)
	if err != nil {
		return writeError(ctx, err)
	}

	var body RefundResponseRequest
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewRespondToRefundCommand(id, params.ActorID, role, refund.Decision(body.Decision), body.Note)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.RespondToRefund.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, refundFromDomain(result.Order, result.Case))
}

// ProcessRefund handles POST /api/v1/orders/{orderId}/refund.
func (s *Server) ProcessRefund(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, role, err := orderAndRole(orderID, params)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewProcessRefundCommand(id, role)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.ProcessRefund.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, refundFromDomain(result.Order, result.Case))
}

// GetRefundStatus handles GET /api/v1/orders/{orderId}/refund-status.
func (s *Server) GetRefundStatus(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetRefundStatusQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}
	response, err := s.h.GetRefundStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, refundStatusFromDomain(response))
}

// GetRefundEvidence handles GET /api/v1/orders/{orderId}/refund-evidence
// and streams the attachment back as stored.
func (s *Server) GetRefundEvidence(ctx echo.Context, orderID openapi_types.UUID, params GetRefundEvidenceParams) error {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	role, err := requireRole(params.ActorParams, "view refund evidence",
		order.RoleBuyer, order.RoleSeller, order.RoleAdmin)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetRefundEvidenceQuery(id, params.Ref, params.ActorID, role)
	if err != nil {
		return writeError(ctx, err)
	}
	attachment, err := s.h.GetRefundEvidence.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Name}))
	return ctx.Blob(http.StatusOK, contentType, attachment.Data)
}

// AssignCourier handles POST /api/v1/orders/{orderId}/courier.
func (s *Server) AssignCourier(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	role, err := requireRole(params, "assign courier", order.RoleSeller, order.RoleAdmin)
	if err != nil {
		return writeError(ctx, err)
	}

	var body AssignCourierRequest
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewAssignCourierCommand(id, body.CourierID, params.ActorID, role)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.AssignCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, logisticsFromDomain(result.Entry, result.Courier))
}

// GetCourierStatus handles GET /api/v1/orders/{orderId}/courier-status.
func (s *Server) GetCourierStatus(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	response, err := s.courierStatus(ctx, id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, courierStatusFromDomain(response))
}

// UpdateCourierStatus handles POST /api/v1/orders/{orderId}/courier-status.
// The response is the same view GetCourierStatus renders.
func (s *Server) UpdateCourierStatus(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	role, err := requireRole(params, "update courier status",
		order.RoleCourier, order.RoleAdmin, order.RoleSystem)
	if err != nil {
		return writeError(ctx, err)
	}

	var body CourierStatusUpdate
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	status, err := logistics.ParseStatus(body.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierStatusCommand(id, status, params.ActorID, role)
	if err != nil {
		return writeError(ctx, err)
	}
	if _, err = s.h.UpdateCourierStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	response, err := s.courierStatus(ctx, id)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, courierStatusFromDomain(response))
}

func (s *Server) courierStatus(ctx echo.Context, id kernel.UUID) (queries.GetCourierStatusQueryResponse, error) {
	query, err := queries.NewGetCourierStatusQuery(id)
	if err != nil {
		return queries.GetCourierStatusQueryResponse{}, err
	}
	return s.h.GetCourierStatus.Handle(ctx.Request().Context(), query)
}

func toKernelUUID(id openapi_types.UUID) (kernel.UUID, error) {
	converted, err := kernel.UUIDFromString(id.String())
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return converted, nil
}

func orderAndRole(orderID openapi_types.UUID, params ActorParams) (kernel.UUID, order.Role, error) {
	id, err := toKernelUUID(orderID)
	if err != nil {
		return kernel.UUID{}, "", err
	}
	role, err := order.ParseRole(params.ActorRole)
	if err != nil {
		return kernel.UUID{}, "", err
	}
	return id, role, nil
}

// requireRole guards routes by role before the use case runs. Use cases
// that take the role still ask the access policy.
func requireRole(params ActorParams, action string, allowed ...order.Role) (order.Role, error) {
	role, err := order.ParseRole(params.ActorRole)
	if err != nil {
		return "", err
	}
	if !slices.Contains(allowed, role) {
		return "", errs.NewForbiddenError(role.String(), action)
	}
	return role, nil
}
