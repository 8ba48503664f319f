package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/raisehub/admin-manager/internal/entity"
)

type emailTemplateRequest struct {
	Task      string `json:"task"`
	FromEmail string `json:"fromEmail"`
	ReplyTo   string `json:"replyTo"`
	FromName  string `json:"fromName"`
	Subject   string `json:"subject"`
	BodyHTML  string `json:"bodyHtml"`
	IsActive  bool   `json:"isActive"`
}

func (e *emailTemplateRequest) Bind(*http.Request) error { return nil }

type emailTemplateUpdateRequest struct {
	FromEmail *string `json:"fromEmail"`
	ReplyTo   *string `json:"replyTo"`
	FromName  *string `json:"fromName"`
	Subject   *string `json:"subject"`
	BodyHTML  *string `json:"bodyHtml"`
	IsActive  *bool   `json:"isActive"`
}

func (e *emailTemplateUpdateRequest) Bind(*http.Request) error { return nil }

type emailTemplateStatusRequest struct {
	IsActive bool `json:"isActive"`
}

func (e *emailTemplateStatusRequest) Bind(*http.Request) error { return nil }

type sendEmailRequest struct {
	Task       string            `json:"task"`
	LanguageId string            `json:"languageId"`
	To         string            `json:"to"`
	Data       map[string]string `json:"data"`
}

func (s *sendEmailRequest) Bind(*http.Request) error { return nil }

// sendEmailTemplate renders the stored template for the task and queues the
// message; the mailer falls back to the default language variant when the
// requested one does not exist.
func (s *Server) sendEmailTemplate(w http.ResponseWriter, r *http.Request) {
	data := &sendEmailRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	if err := s.mailer.EnqueueTask(r.Context(), data.Task, data.LanguageId, data.To, data.Data); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusAccepted, "Email queued", nil)
}

// createEmailTemplate creates the template for the language named in the
// request, or one variant per active language when no language is given.
func (s *Server) createEmailTemplate(w http.ResponseWriter, r *http.Request) {
	data := &emailTemplateRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	created, err := s.templates.Create(r.Context(), entity.EmailTemplate{
		Task:      data.Task,
		FromEmail: data.FromEmail,
		ReplyTo:   data.ReplyTo,
		FromName:  data.FromName,
		Subject:   data.Subject,
		BodyHTML:  data.BodyHTML,
		IsActive:  data.IsActive,
	}, languageToken(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusCreated, "Email template created", created)
}

func (s *Server) getEmailTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.templates.Get(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Email template", tpl)
}

func (s *Server) listEmailTemplates(w http.ResponseWriter, r *http.Request) {
	filter := entity.EmailTemplateFilter{
		Task:     r.URL.Query().Get("task"),
		IsActive: boolFilter(r, "isActive"),
		Search:   r.URL.Query().Get("search"),
	}
	templates, pg, err := s.templates.List(r.Context(), filter, listOptions(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderPage(w, r, "Email templates", templates, pg)
}

func (s *Server) updateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	data := &emailTemplateUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	tpl, err := s.templates.Update(r.Context(), chi.URLParam(r, "publicId"), entity.EmailTemplateUpdate{
		FromEmail: data.FromEmail,
		ReplyTo:   data.ReplyTo,
		FromName:  data.FromName,
		Subject:   data.Subject,
		BodyHTML:  data.BodyHTML,
		IsActive:  data.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Email template updated", tpl)
}

// deleteEmailTemplate removes every language variant of the template's task.
func (s *Server) deleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	count, err := s.templates.Delete(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Email templates deleted", entity.BulkResult{Count: count})
}

func (s *Server) bulkUpdateEmailTemplates(w http.ResponseWriter, r *http.Request) {
	data := &bulkStatusRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.templates.BulkUpdateStatus(r.Context(), data.PublicIds, data.IsActive)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Email templates updated", res)
}

func (s *Server) bulkDeleteEmailTemplates(w http.ResponseWriter, r *http.Request) {
	data := &bulkDeleteRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.templates.BulkDelete(r.Context(), data.PublicIds)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Email templates deleted", res)
}

func (s *Server) updateEmailTemplateStatus(w http.ResponseWriter, r *http.Request) {
	data := &emailTemplateStatusRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	count, err := s.templates.UpdateStatus(r.Context(), chi.URLParam(r, "publicId"), data.IsActive)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Email template status updated", entity.BulkResult{Count: count})
}
