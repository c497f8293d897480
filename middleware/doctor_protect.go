package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/healthbridge/backend/internal/observability"
	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/repositories"
	"github.com/healthbridge/backend/token"
	"github.com/healthbridge/backend/utils"
	"go.uber.org/zap"
)

// DefaultCookieName is the cookie carrying the doctor token
const DefaultCookieName = "jwt"

const (
	msgNoToken       = "Unauthorized - No Token Provided"
	msgInvalidToken  = "Invalid Token"
	msgNoDoctor      = "No Doctor Found"
	msgInternalError = "An error occurred in Doctor Protect Route"
)

// TokenVerifier checks a doctor token. Rejected credentials return an error
// matching token.ErrInvalidToken; any other error is an internal fault.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*token.Claims, error)
}

// DoctorStore resolves a doctor by ID. A missing doctor returns an error
// matching repositories.ErrNotFound.
type DoctorStore interface {
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
}

// DoctorGate authorizes requests carrying a doctor token cookie
type DoctorGate struct {
	verifier   TokenVerifier
	store      DoctorStore
	logger     *zap.Logger
	metrics    *observability.AuthMetrics
	cookieName string
}

// GateOption configures a DoctorGate
type GateOption func(*DoctorGate)

// WithCookieName overrides the token cookie name
func WithCookieName(name string) GateOption {
	return func(g *DoctorGate) {
		if name != "" {
			g.cookieName = name
		}
	}
}

// NewDoctorGate creates a new DoctorGate. metrics may be nil.
func NewDoctorGate(verifier TokenVerifier, store DoctorStore, logger *zap.Logger, metrics *observability.AuthMetrics, opts ...GateOption) *DoctorGate {
	g := &DoctorGate{
		verifier:   verifier,
		store:      store,
		logger:     logger,
		metrics:    metrics,
		cookieName: DefaultCookieName,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Protect admits the request only when the cookie holds a valid token whose
// user resolves to a stored doctor. The doctor is then available to next via
// DoctorFromContext.
func (g *DoctorGate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doctor, ok := g.authorize(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithDoctor(r.Context(), doctor)))
	})
}

// authorize writes the rejection itself and reports whether to proceed.
// next runs outside of it so panics downstream are not reported as gate failures.
func (g *DoctorGate) authorize(w http.ResponseWriter, r *http.Request) (doctor *models.Doctor, ok bool) {
	ctx := r.Context()
	requestID := GetRequestIDFromContext(ctx)

	defer func() {
		if p := recover(); p != nil {
			g.fail(w, requestID, fmt.Errorf("panic: %v", p))
			doctor, ok = nil, false
		}
	}()

	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		g.logger.Debug("doctor token missing", zap.String("request_id", requestID))
		g.metrics.Record(observability.OutcomeMissingToken)
		_ = utils.WriteUnauthorized(w, msgNoToken)
		return nil, false
	}

	claims, err := g.verifier.Verify(ctx, cookie.Value)
	if err != nil && !errors.Is(err, token.ErrInvalidToken) {
		g.fail(w, requestID, fmt.Errorf("verify token: %w", err))
		return nil, false
	}
	if err != nil || claims == nil {
		g.logger.Debug("doctor token rejected",
			zap.String("request_id", requestID),
			zap.NamedError("reason", err))
		g.metrics.Record(observability.OutcomeInvalidToken)
		_ = utils.WriteMessage(w, http.StatusUnauthorized, msgInvalidToken)
		return nil, false
	}

	doctor, err = g.store.GetByID(ctx, claims.User)
	switch {
	case errors.Is(err, repositories.ErrNotFound), err == nil && doctor == nil:
		g.logger.Debug("doctor not found",
			zap.String("request_id", requestID),
			zap.String("doctor_id", claims.User))
		g.metrics.Record(observability.OutcomeDoctorNotFound)
		_ = utils.WriteMessage(w, http.StatusUnauthorized, msgNoDoctor)
		return nil, false
	case err != nil:
		g.fail(w, requestID, fmt.Errorf("load doctor %s: %w", claims.User, err))
		return nil, false
	}

	g.logger.Debug("doctor authorized",
		zap.String("request_id", requestID),
		zap.String("doctor_id", doctor.ID))
	g.metrics.Record(observability.OutcomeAuthorized)
	return doctor, true
}

func (g *DoctorGate) fail(w http.ResponseWriter, requestID string, err error) {
	g.logger.Error("doctor protect route failed",
		zap.String("request_id", requestID),
		zap.Error(err))
	g.metrics.Record(observability.OutcomeInternalError)
	_ = utils.WriteMessage(w, http.StatusInternalServerError, msgInternalError)
}
