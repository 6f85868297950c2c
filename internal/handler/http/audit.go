package http

import (
	"net/http"

	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

// List handles GET /audit-logs?search=&page=&limit=
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.auditService.List(r.Context(), audit.Filter{
		Search: getStringQueryParam(r, "search"),
		Page:   getIntQueryParam(r, "page", 1),
		Limit:  getIntQueryParam(r, "limit", 20),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
