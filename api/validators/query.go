package validators

import (
	"net/http"
	"strconv"

	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/pagination"
)

// ParsePagination reads limit/cursor query parameters.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{
		Cursor: r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer")
		}
		params.Limit = limit
	}
	return params, nil
}
