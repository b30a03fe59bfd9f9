package controllers

import (
	"net/http"

	"github.com/veloretail/bulkcart-backend/api/responses"
	"github.com/veloretail/bulkcart-backend/api/validators"
	"github.com/veloretail/bulkcart-backend/internal/auth"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
)

type OTPController struct {
	svc  auth.OTPService
	logg *logger.Logger
}

func NewOTPController(svc auth.OTPService, logg *logger.Logger) *OTPController {
	return &OTPController{svc: svc, logg: logg}
}

func (c *OTPController) Send(w http.ResponseWriter, r *http.Request) {
	var req auth.SendOTPRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Send(r.Context(), req.Destination); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]bool{"sent": true})
}

func (c *OTPController) Verify(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Verify(r.Context(), req.Destination, req.Code); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]bool{"verified": true})
}
