package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/veloretail/bulkcart-backend/api/middleware"
	"github.com/veloretail/bulkcart-backend/api/responses"
	"github.com/veloretail/bulkcart-backend/api/validators"
	"github.com/veloretail/bulkcart-backend/internal/products"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
)

type ProductController struct {
	svc  products.Service
	logg *logger.Logger
}

func NewProductController(svc products.Service, logg *logger.Logger) *ProductController {
	return &ProductController{svc: svc, logg: logg}
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	viewer, err := viewerFromContext(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.svc.ListProducts(r.Context(), products.ListProductsInput{
		Viewer:     viewer,
		Pagination: params,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, result)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
		return
	}

	viewer, err := viewerFromContext(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	product, err := c.svc.GetProduct(r.Context(), productID, viewer)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, product)
}

func viewerFromContext(r *http.Request) (enums.UserType, error) {
	viewer, err := enums.ParseUserType(middleware.UserTypeFromContext(r.Context()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing user type")
	}
	return viewer, nil
}
