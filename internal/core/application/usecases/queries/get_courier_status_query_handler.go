package queries

import (
	"context"
	"errors"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// GetCourierStatusQueryHandler never fails because an order is not tracked:
// a missing entry yields {Processing, "Not Assigned", Found: false}. A
// courier the directory cannot resolve is shown as "Unknown".
type GetCourierStatusQueryHandler struct {
	readers   ReaderFactory
	directory ports.CourierDirectory
}

func NewGetCourierStatusQueryHandler(readers ReaderFactory, directory ports.CourierDirectory) GetCourierStatusQueryHandler {
	return GetCourierStatusQueryHandler{readers: readers, directory: directory}
}

func (h GetCourierStatusQueryHandler) Handle(
	ctx context.Context,
	query GetCourierStatusQuery,
) (GetCourierStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierStatusQueryResponse{}, err
	}

	response := GetCourierStatusQueryResponse{
		OrderID:     query.OrderID(),
		Status:      logistics.Processing,
		CourierName: NotAssignedCourierName,
	}

	entry, err := h.readers.Create().LogisticsRepository().GetByOrder(ctx, query.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return response, nil
	case err != nil:
		return GetCourierStatusQueryResponse{}, err
	}

	response.Found = true
	response.Status = entry.Status()
	response.CourierID = entry.CourierID()
	if response.CourierID == nil {
		return response, nil
	}

	info, err := h.directory.Lookup(ctx, *response.CourierID)
	if err != nil {
		response.CourierName = UnknownCourierName
		return response, nil
	}
	response.CourierName = info.Name
	return response, nil
}
