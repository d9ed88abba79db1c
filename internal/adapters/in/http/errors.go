package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// Error is the body of every failed response.
type Error struct {
	Kind          string  `json:"kind"`
	Message       string  `json:"message"`
	CurrentStatus *string `json:"currentStatus,omitempty"`
}

// StatusCode maps an error kind to the HTTP status returned for it.
func StatusCode(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindIllegalTransition, errs.KindConflict:
		return http.StatusConflict
	case errs.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx echo.Context, err error) error {
	kind := errs.KindOf(err)
	if kind == errs.KindNone {
		kind = errs.KindInternal
	}

	body := Error{Kind: kind.String(), Message: err.Error()}
	if kind == errs.KindInternal {
		ctx.Logger().Error(err)
		body.Message = "internal error"
	}
	if status, ok := errs.CurrentStatus(err); ok {
		body.CurrentStatus = &status
	}
	return ctx.JSON(StatusCode(kind), body)
}
