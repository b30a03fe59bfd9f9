package controllers

import (
	"context"
	"net/http"

	"github.com/veloretail/bulkcart-backend/api/responses"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db    pinger
	cache pinger
	logg  *logger.Logger
}

func NewHealthController(db, cache pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, cache: cache, logg: logg}
}

func (c *HealthController) Live(w http.ResponseWriter, _ *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok", "cache": "ok"}

	if c.db != nil {
		if err := c.db.Ping(r.Context()); err != nil {
			checks["database"] = "unavailable"
			responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
	}
	if c.cache != nil {
		if err := c.cache.Ping(r.Context()); err != nil {
			checks["cache"] = "unavailable"
			responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable"))
			return
		}
	}

	responses.WriteSuccess(w, checks)
}
