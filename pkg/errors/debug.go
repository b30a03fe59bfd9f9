package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PGDiagnostics carries the postgres driver fields worth logging when a
// query fails. Constraint plus detail is enough to identify which of our
// unique indexes (email, cart/user, cart/product) fired.
type PGDiagnostics struct {
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Table      string `json:"table,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

// ErrorDump flattens an error chain for structured logging. Details mirrors
// the typed error's payload (stock counts, MOQ numbers) so the log line and
// the client envelope tell the same story.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Details    any      `json:"details,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PG *PGDiagnostics `json:"pg,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	dump := ErrorDump{TopMessage: err.Error()}

	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
		dump.Details = typed.Details()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		dump.Chain = append(dump.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	dump.PG = pgDiagnostics(err)
	return dump
}

// pgDiagnostics digs driver errors out of the chain, preferring the pgx
// error when both drivers are in play.
func pgDiagnostics(err error) *PGDiagnostics {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PGDiagnostics{
			Code:       pgxErr.Code,
			Message:    pgxErr.Message,
			Detail:     pgxErr.Detail,
			Table:      pgxErr.TableName,
			Constraint: pgxErr.ConstraintName,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PGDiagnostics{
			Code:       string(pqErr.Code),
			Message:    pqErr.Message,
			Detail:     pqErr.Detail,
			Table:      pqErr.Table,
			Constraint: pqErr.Constraint,
		}
	}

	return nil
}
