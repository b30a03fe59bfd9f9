package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/veloretail/bulkcart-backend/api/middleware"
	"github.com/veloretail/bulkcart-backend/api/responses"
	"github.com/veloretail/bulkcart-backend/api/validators"
	"github.com/veloretail/bulkcart-backend/internal/cart"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
)

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

type CartController struct {
	svc  cart.Service
	logg *logger.Logger
}

func NewCartController(svc cart.Service, logg *logger.Logger) *CartController {
	return &CartController{svc: svc, logg: logg}
}

func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	userID, _, err := actorFromContext(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	dto, err := c.svc.GetCart(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, dto)
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, userType, err := actorFromContext(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	productID, err := productIDFromRoute(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req quantityRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	dto, err := c.svc.AddItem(r.Context(), userID, userType, productID, req.Quantity)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, dto)
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, userType, err := actorFromContext(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	productID, err := productIDFromRoute(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req quantityRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	dto, err := c.svc.UpdateItem(r.Context(), userID, userType, productID, req.Quantity)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, dto)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, _, err := actorFromContext(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	productID, err := productIDFromRoute(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	dto, err := c.svc.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, dto)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, _, err := actorFromContext(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Clear(r.Context(), userID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]bool{"cleared": true})
}

func actorFromContext(r *http.Request) (uuid.UUID, enums.UserType, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing user id")
	}
	userType, err := enums.ParseUserType(middleware.UserTypeFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing user type")
	}
	return userID, userType, nil
}

func productIDFromRoute(r *http.Request) (uuid.UUID, error) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return productID, nil
}
