package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/healthbridge/backend/models"
)

// Context key type to avoid collisions
type contextKey string

// DoctorKey is the context key for the authenticated doctor
const DoctorKey contextKey = "doctor"

// GetRequestIDFromContext retrieves the request ID set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// WithDoctor adds the authenticated doctor to the context
func WithDoctor(ctx context.Context, doctor *models.Doctor) context.Context {
	return context.WithValue(ctx, DoctorKey, doctor)
}

// DoctorFromContext returns the doctor attached by DoctorGate, or nil outside a protected route
func DoctorFromContext(ctx context.Context) *models.Doctor {
	if val := ctx.Value(DoctorKey); val != nil {
		if doctor, ok := val.(*models.Doctor); ok {
			return doctor
		}
	}
	return nil
}
