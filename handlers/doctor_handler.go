package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/healthbridge/backend/middleware"
	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/services"
	"github.com/healthbridge/backend/utils"
	"go.uber.org/zap"
)

// DoctorProfileService is the part of services.DoctorService the handler needs
type DoctorProfileService interface {
	GetProfile(ctx context.Context, id string) (*models.Doctor, error)
	UpdateProfile(ctx context.Context, id string, input services.UpdateDoctorInput) (*models.Doctor, error)
}

// DoctorHandler serves the authenticated doctor's own profile
type DoctorHandler struct {
	service DoctorProfileService
	logger  *zap.Logger
}

// NewDoctorHandler creates a new DoctorHandler
func NewDoctorHandler(service DoctorProfileService, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{
		service: service,
		logger:  logger,
	}
}

// GetMe handles GET /api/doctor/me
// The doctor comes from the gate, so no second store read is made.
func (h *DoctorHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	doctor := middleware.DoctorFromContext(r.Context())
	if doctor == nil {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}

	if err := utils.WriteOK(w, doctor); err != nil {
		h.logger.Error("failed to write doctor response", zap.Error(err))
	}
}

// GetByID handles GET /api/doctor/{id}, a colleague lookup for authenticated doctors
func (h *DoctorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if middleware.DoctorFromContext(r.Context()) == nil {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		_ = utils.WriteBadRequest(w, "Doctor ID is required", nil)
		return
	}

	doctor, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, doctor); err != nil {
		h.logger.Error("failed to write doctor response", zap.Error(err))
	}
}

// UpdateMe handles PUT /api/doctor/me
func (h *DoctorHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	doctor := middleware.DoctorFromContext(r.Context())
	if doctor == nil {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}

	var input services.UpdateDoctorInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		HandleDecodeError(w, err, h.logger)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), doctor.ID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, updated); err != nil {
		h.logger.Error("failed to write doctor response", zap.Error(err))
	}
}
