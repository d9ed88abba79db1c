package http

import (
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// BasePath prefixes every route of openapi.yaml.
const BasePath = "/api/v1"

const (
	actorIDHeader   = "X-Actor-Id"
	actorRoleHeader = "X-Actor-Role"
)

// ActorParams identify the caller. They are set by the upstream gateway.
type ActorParams struct {
	ActorID   string
	ActorRole string
}

// ListSellerOrdersParams defines parameters for ListSellerOrders.
type ListSellerOrdersParams struct {
	ActorParams
	Status *[]string
}

// GetRefundEvidenceParams defines parameters for GetRefundEvidence.
type GetRefundEvidenceParams struct {
	ActorParams
	Ref string
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /orders)
	PlaceOrder(ctx echo.Context, params ActorParams) error
	// (GET /orders)
	ListBuyerOrders(ctx echo.Context, params ActorParams) error
	// (GET /orders/{orderId})
	GetOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /orders/{orderId}/history)
	GetOrderHistory(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/transitions)
	TransitionOrder(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (POST /orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (POST /orders/{orderId}/partial-fulfillment)
	ProcessPartialOrder(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (POST /orders/{orderId}/refund-request)
	RequestRefund(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (POST /orders/{orderId}/refund-response)
	RespondToRefund(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (POST /orders/{orderId}/refund)
	ProcessRefund(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (GET /orders/{orderId}/refund-status)
	GetRefundStatus(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /orders/{orderId}/refund-evidence)
	GetRefundEvidence(ctx echo.Context, orderID openapi_types.UUID, params GetRefundEvidenceParams) error
	// (POST /orders/{orderId}/courier)
	AssignCourier(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (GET /orders/{orderId}/courier-status)
	GetCourierStatus(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/courier-status)
	UpdateCourierStatus(ctx echo.Context, orderID openapi_types.UUID, params ActorParams) error
	// (GET /seller/orders)
	ListSellerOrders(ctx echo.Context, params ListSellerOrdersParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) PlaceOrder(ctx echo.Context) error {
	params, err := bindActor(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return w.Handler.PlaceOrder(ctx, params)
}

func (w *ServerInterfaceWrapper) ListBuyerOrders(ctx echo.Context) error {
	params, err := bindActor(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return w.Handler.ListBuyerOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return w.Handler.GetOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetOrderHistory(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return w.Handler.GetOrderHistory(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetRefundStatus(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return w.Handler.GetRefundStatus(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetRefundEvidence(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	actor, err := bindActor(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	params := GetRefundEvidenceParams{ActorParams: actor}
	if err = runtime.BindQueryParameter("form", true, true, "ref", ctx.QueryParams(), &params.Ref); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("ref", err))
	}
	return w.Handler.GetRefundEvidence(ctx, orderID, params)
}

func (w *ServerInterfaceWrapper) GetCourierStatus(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	return w.Handler.GetCourierStatus(ctx, orderID)
}

func (w *ServerInterfaceWrapper) ListSellerOrders(ctx echo.Context) error {
	actor, err := bindActor(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	params := ListSellerOrdersParams{ActorParams: actor}
	if err = runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("status", err))
	}
	return w.Handler.ListSellerOrders(ctx, params)
}

// orderAction binds the order id and the actor of a state-changing route.
func (w *ServerInterfaceWrapper) orderAction(
	call func(echo.Context, openapi_types.UUID, ActorParams) error,
) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, err := bindOrderID(ctx)
		if err != nil {
			return writeError(ctx, err)
		}
		params, err := bindActor(ctx)
		if err != nil {
			return writeError(ctx, err)
		}
		return call(ctx, orderID, params)
	}
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the router under BasePath.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST(BasePath+"/orders", w.PlaceOrder)
	router.GET(BasePath+"/orders", w.ListBuyerOrders)
	router.GET(BasePath+"/orders/:orderId", w.GetOrder)
	router.GET(BasePath+"/orders/:orderId/history", w.GetOrderHistory)
	router.POST(BasePath+"/orders/:orderId/transitions", w.orderAction(si.TransitionOrder))
	router.POST(BasePath+"/orders/:orderId/cancel", w.orderAction(si.CancelOrder))
	router.POST(BasePath+"/orders/:orderId/partial-fulfillment", w.orderAction(si.ProcessPartialOrder))
	router.POST(BasePath+"/orders/:orderId/refund-request", w.orderAction(si.RequestRefund))
	router.POST(BasePath+"/orders/:orderId/refund-response", w.orderAction(si.RespondToRefund))
	router.POST(BasePath+"/orders/:orderId/refund", w.orderAction(si.ProcessRefund))
	router.GET(BasePath+"/orders/:orderId/refund-status", w.GetRefundStatus)
	router.GET(BasePath+"/orders/:orderId/refund-evidence", w.GetRefundEvidence)
	router.POST(BasePath+"/orders/:orderId/courier", w.orderAction(si.AssignCourier))
	router.GET(BasePath+"/orders/:orderId/courier-status", w.GetCourierStatus)
	router.POST(BasePath+"/orders/:orderId/courier-status", w.orderAction(si.UpdateCourierStatus))
	router.GET(BasePath+"/seller/orders", w.ListSellerOrders)
}

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var orderID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderID, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return orderID, nil
}

func bindActor(ctx echo.Context) (ActorParams, error) {
	var params ActorParams
	headers := ctx.Request().Header

	for name, dest := range map[string]*string{
		actorIDHeader:   &params.ActorID,
		actorRoleHeader: &params.ActorRole,
	} {
		value := headers.Get(name)
		if value == "" {
			return ActorParams{}, errs.NewValueIsRequiredError(name)
		}
		err := runtime.BindStyledParameterWithOptions("simple", name, value, dest,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
		if err != nil {
			return ActorParams{}, errs.NewValueIsInvalidErrorWithCause(name, err)
		}
	}
	return params, nil
}
