// Package handler exposes the verification request endpoints.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"huduma/internal/letter"
	"huduma/internal/policy"
	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	"huduma/pkg/platform/httputil"
	"huduma/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, actor policy.Actor, p models.Patch) (*models.View, error)
	ListMine(ctx context.Context, actor policy.Actor) ([]models.View, error)
	Get(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*models.View, error)
	Update(ctx context.Context, actor policy.Actor, requestID id.RequestID, p models.Patch) (*models.View, error)
	Resubmit(ctx context.Context, actor policy.Actor, requestID id.RequestID, p models.Patch) (*models.View, error)
	Approve(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*models.View, error)
	Reject(ctx context.Context, actor policy.Actor, requestID id.RequestID, reason string) (*models.View, error)
	Reopen(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*models.View, error)
	ListPending(ctx context.Context, actor policy.Actor) ([]models.View, error)
	ListApproved(ctx context.Context, actor policy.Actor) ([]models.View, error)
	Stats(ctx context.Context, actor policy.Actor) (*models.Stats, error)
	Letter(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*letter.Document, error)
}

var requestNotFound = dErrors.New(dErrors.CodeNotFound, "Request not found.")

type Handler struct {
	svc         Service
	requireAuth func(http.Handler) http.Handler
	logger      *slog.Logger
}

func New(svc Service, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, requireAuth: requireAuth, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	citizens := policy.Require(policy.CitizenOnly)
	officers := policy.Require(policy.OfficerOnly)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.With(citizens).Get("/requests", h.handleListMine)
		r.With(citizens).Post("/requests", h.handleCreate)
		r.With(officers).Get("/requests/pending", h.handleListPending)
		r.With(officers).Get("/requests/approved", h.handleListApproved)

		r.Route("/requests/{id}", func(r chi.Router) {
			r.Use(policy.Require(policy.OwnerOrOfficer))
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Patch("/", h.handleUpdate)
			r.Get("/download", h.handleDownload)
			r.With(citizens).Post("/resubmit", h.handleResubmit)
			r.With(officers).Post("/approve", h.handleApprove)
			r.With(officers).Post("/reject", h.handleReject)
			r.With(officers).Post("/reopen", h.handleReopen)
		})

		r.With(officers).Get("/stats/officer", h.handleStats)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p models.Patch
	if err := httputil.DecodeJSON(r, &p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.svc.Create(ctx, policy.ActorFromContext(ctx), p)
	if err != nil {
		h.fail(ctx, w, "create request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	views, err := h.svc.ListMine(ctx, policy.ActorFromContext(ctx))
	h.writeList(ctx, w, "list requests failed", views, err)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	views, err := h.svc.ListPending(ctx, policy.ActorFromContext(ctx))
	h.writeList(ctx, w, "list pending requests failed", views, err)
}

func (h *Handler) handleListApproved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	views, err := h.svc.ListApproved(ctx, policy.ActorFromContext(ctx))
	h.writeList(ctx, w, "list approved requests failed", views, err)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Get(ctx, policy.ActorFromContext(ctx), requestID)
	h.writeView(ctx, w, "load request failed", view, err)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}
	var p models.Patch
	if err := httputil.DecodeJSON(r, &p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.svc.Update(ctx, policy.ActorFromContext(ctx), requestID, p)
	h.writeView(ctx, w, "update request failed", view, err)
}

func (h *Handler) handleResubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}
	var p models.Patch
	if err := httputil.DecodeJSON(r, &p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.svc.Resubmit(ctx, policy.ActorFromContext(ctx), requestID, p)
	h.writeView(ctx, w, "resubmit request failed", view, err)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Approve(ctx, policy.ActorFromContext(ctx), requestID)
	h.writeView(ctx, w, "approve request failed", view, err)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}
	var body models.RejectRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.svc.Reject(ctx, policy.ActorFromContext(ctx), requestID, body.Reason)
	h.writeView(ctx, w, "reject request failed", view, err)
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Reopen(ctx, policy.ActorFromContext(ctx), requestID)
	h.writeView(ctx, w, "reopen request failed", view, err)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.Letter(ctx, policy.ActorFromContext(ctx), requestID)
	if err != nil {
		h.fail(ctx, w, "letter download failed", err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		h.logger.WarnContext(ctx, "letter write failed", "error", err, "request_id", requestcontext.RequestID(ctx))
	}
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.svc.Stats(ctx, policy.ActorFromContext(ctx))
	if err != nil {
		h.fail(ctx, w, "load stats failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// requestID parses the {id} URL parameter. Malformed ids are reported as
// not found.
func (h *Handler) requestID(w http.ResponseWriter, r *http.Request) (id.RequestID, bool) {
	requestID, err := id.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, requestNotFound)
		return id.RequestID{}, false
	}
	return requestID, true
}

func (h *Handler) writeView(ctx context.Context, w http.ResponseWriter, msg string, view *models.View, err error) {
	if err != nil {
		h.fail(ctx, w, msg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) writeList(ctx context.Context, w http.ResponseWriter, msg string, views []models.View, err error) {
	if err != nil {
		h.fail(ctx, w, msg, err)
		return
	}
	if views == nil {
		views = []models.View{}
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	} else {
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	}
	httputil.WriteError(w, err)
}
