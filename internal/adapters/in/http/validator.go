package http

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"

	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// RequestValidator rejects requests that do not match openapi.yaml before
// they reach a handler. Paths outside BasePath and unknown routes pass
// through untouched.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	// Routes are matched on the path with BasePath stripped.
	routed := *doc
	routed.Servers = nil

	router, err := legacy.NewRouter(&routed)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if !strings.HasPrefix(req.URL.Path, BasePath+"/") {
				return next(ctx)
			}

			var body []byte
			if req.Body != nil {
				read, err := io.ReadAll(req.Body)
				if err != nil {
					return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
				}
				body = read
				_ = req.Body.Close()
				req.Body = io.NopCloser(bytes.NewReader(body))
			}

			probe := req.Clone(req.Context())
			probe.URL.Path = strings.TrimPrefix(req.URL.Path, BasePath)
			probe.URL.RawPath = ""
			probe.Body = io.NopCloser(bytes.NewReader(body))

			route, pathParams, err := router.FindRoute(probe)
			if err != nil {
				var routeErr *routers.RouteError
				if errors.As(err, &routeErr) {
					return next(ctx)
				}
				return writeError(ctx, err)
			}

			err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
				Request:    probe,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			if err != nil {
				return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request", err))
			}
			return next(ctx)
		}
	}, nil
}
