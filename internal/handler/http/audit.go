package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/response"
)

type AuditHandler interface {
	Search(w http.ResponseWriter, r *http.Request)
}

type AuditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &AuditHandlerImpl{auditService: auditService}
}

// Search implements AuditHandler.
func (a *AuditHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	entries, err := a.auditService.Search(r.Context(), viewerID, audit.SearchAuditRequest{
		ActorID: query.Get("actor_id"),
		Action:  query.Get("action"),
		From:    query.Get("from"),
		To:      query.Get("to"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}
