package controllers

import (
	"net/http"

	"github.com/veloretail/bulkcart-backend/api/middleware"
	"github.com/veloretail/bulkcart-backend/api/responses"
	"github.com/veloretail/bulkcart-backend/api/validators"
	"github.com/veloretail/bulkcart-backend/internal/auth"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
)

type AuthController struct {
	svc  auth.Service
	logg *logger.Logger
}

func NewAuthController(svc auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{svc: svc, logg: logg}
}

func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.svc.Signup(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, resp)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	resp, err := c.svc.Login(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, resp)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	accessID := middleware.AccessIDFromContext(r.Context())
	if accessID == "" {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
		return
	}

	if err := c.svc.Logout(r.Context(), accessID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]bool{"logged_out": true})
}
