// Package handler exposes registration, profile and citizen directory
// endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"huduma/internal/identity/models"
	"huduma/internal/policy"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	"huduma/pkg/platform/httputil"
	"huduma/pkg/requestcontext"
)

// Service is the identity surface used by the HTTP layer.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Me(ctx context.Context, userID id.UserID) (*models.Account, error)
	UpdateProfile(ctx context.Context, userID id.UserID, upd models.ProfileUpdate) (*models.Account, error)
	ChangePassword(ctx context.Context, userID id.UserID, req models.ChangePasswordRequest) error
	ListCitizens(ctx context.Context) ([]*models.Account, error)
	GetCitizen(ctx context.Context, userID id.UserID) (*models.Account, error)
}

var citizenNotFound = dErrors.New(dErrors.CodeNotFound, "Citizen not found.")

type Handler struct {
	svc         Service
	requireAuth func(http.Handler) http.Handler
	logger      *slog.Logger
}

// New builds the handler. requireAuth authenticates the non-public routes.
func New(svc Service, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, requireAuth: requireAuth, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/me", h.handleMe)
		r.Get("/profile", h.handleMe)
		r.Put("/profile", h.handleUpdateProfile)
		r.Patch("/profile", h.handleUpdateProfile)
		r.Post("/profile/password", h.handleChangePassword)

		r.With(policy.Require(policy.OfficerOnly)).Get("/citizens", h.handleListCitizens)
		r.With(policy.Require(policy.OfficerOnly)).Get("/citizens/{id}", h.handleGetCitizen)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := h.svc.Register(ctx, req)
	if err != nil {
		h.fail(ctx, w, "register failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	acct, err := h.svc.Me(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(ctx, w, "load account failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var upd models.ProfileUpdate
	if err := httputil.DecodeJSON(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	acct, err := h.svc.UpdateProfile(ctx, requestcontext.UserID(ctx), upd)
	if err != nil {
		h.fail(ctx, w, "profile update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.ChangePassword(ctx, requestcontext.UserID(ctx), req); err != nil {
		h.fail(ctx, w, "password change failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detailResponse{Detail: "Password updated successfully."})
}

func (h *Handler) handleListCitizens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accts, err := h.svc.ListCitizens(ctx)
	if err != nil {
		h.fail(ctx, w, "list citizens failed", err)
		return
	}
	out := make([]userResponse, 0, len(accts))
	for _, a := range accts {
		out = append(out, toUserResponse(a.User))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, citizenNotFound)
		return
	}
	acct, err := h.svc.GetCitizen(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "load citizen failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	} else {
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	}
	httputil.WriteError(w, err)
}
