package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ledger/internal/auth"
	"ledger/internal/domain"
	"ledger/internal/events"
	"ledger/internal/infra"
	"ledger/internal/middleware"
	"ledger/internal/reporting"
)

const maxBodyBytes = 1 << 20

// statusClientClosedRequest marks requests the client abandoned before a
// response was ready.
const statusClientClosedRequest = 499

// App carries the dependencies shared by every handler.
type App struct {
	SQL       infra.SQLExecutor
	Logger    zerolog.Logger
	Donations domain.DonationRepository
	Reporting *reporting.Service
	Auth      *auth.Service
	Events    events.Publisher
	Now       func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, msg string) {
	a.json(w, status, map[string]string{"error": msg, "code": code})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// decode reads a single JSON object, rejecting unknown fields.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// fail maps service and storage errors onto HTTP responses. Storage details
// are logged and never returned.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		a.error(w, http.StatusBadRequest, "bad_request", ve.Message)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		a.error(w, http.StatusConflict, "conflict", "User already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, context.Canceled):
		a.Logger.Debug().Str("path", r.URL.Path).Msg("request canceled")
		a.error(w, statusClientClosedRequest, "canceled", "request canceled")
	case infra.IsRetryable(err):
		a.Logger.Warn().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("storage unavailable")
		w.Header().Set("Retry-After", "1")
		a.error(w, http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// scope resolves the read scope for the authenticated caller.
func (a *App) scope(w http.ResponseWriter, r *http.Request) (domain.Scope, string, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return domain.Scope{}, "", false
	}
	scope, err := a.Reporting.ScopeFor(userID)
	if err != nil {
		a.fail(w, r, err, "")
		return domain.Scope{}, "", false
	}
	return scope, userID, true
}

// publish emits a donation event; failures are logged and never fail the request.
func (a *App) publish(r *http.Request, action domain.AuditAction, d *domain.Donation, actor string) {
	if a.Events == nil || d == nil {
		return
	}
	e := events.NewDonationEvent(action, d, actor, a.now())
	ctx := context.WithoutCancel(r.Context())
	if err := a.Events.PublishDonationEvent(ctx, e); err != nil {
		a.Logger.Warn().Err(err).Str("action", string(action)).Str("donation_id", d.ID).Msg("publish donation event failed")
	}
}
