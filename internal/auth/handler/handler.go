// Package handler exposes the token endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"huduma/internal/auth/models"
	"huduma/pkg/platform/httputil"
	"huduma/pkg/requestcontext"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	OfficerLogin(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, req models.RefreshRequest) (*models.AccessToken, error)
	Logout(ctx context.Context, req models.RefreshRequest) error
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.login(h.svc.Login))
	r.Post("/auth/officer-login", h.login(h.svc.OfficerLogin))
	r.Post("/auth/refresh", h.handleRefresh)
	r.Post("/auth/logout", h.handleLogout)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginFunc func(ctx context.Context, email, password string) (*models.TokenPair, error)

func (h *Handler) login(fn loginFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var creds credentials
		if err := httputil.DecodeJSON(r, &creds); err != nil {
			httputil.WriteError(w, err)
			return
		}
		pair, err := fn(ctx, creds.Email, creds.Password)
		if err != nil {
			h.logger.WarnContext(ctx, "login refused",
				"error", err,
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, pair)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.svc.Refresh(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.Logout(r.Context(), req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
