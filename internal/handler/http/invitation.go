package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/invitation"
	"github.com/terralogix/hr-backend-go/internal/handler/http/response"
)

type InvitationHandler interface {
	Invite(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
	}
}

func (h *invitationHandlerImpl) Invite(w http.ResponseWriter, r *http.Request) {
	var req invitation.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.invitationService.Invite(r.Context(), req)
	if err != nil {
		slog.Error("Invite service error", "email", req.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, resp.Status, resp)
}

func (h *invitationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.invitationService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *invitationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.invitationService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invitation deleted", nil)
}
