package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/raisehub/admin-manager/internal/entity"
)

type dropdownRequest struct {
	Name         string `json:"name"`
	UniqueCode   int64  `json:"uniqueCode"`
	DropdownType string `json:"dropdownType"`
	IsActive     bool   `json:"isActive"`
}

func (d *dropdownRequest) Bind(*http.Request) error { return nil }

type dropdownUpdateRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

func (d *dropdownUpdateRequest) Bind(*http.Request) error { return nil }

func (s *Server) createDropdown(w http.ResponseWriter, r *http.Request) {
	data := &dropdownRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	opt, err := s.dropdowns.Create(r.Context(), entity.DropdownOption{
		Name:         data.Name,
		UniqueCode:   data.UniqueCode,
		DropdownType: data.DropdownType,
		IsActive:     data.IsActive,
	}, languageToken(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusCreated, "Dropdown option created", opt)
}

func (s *Server) listDropdowns(w http.ResponseWriter, r *http.Request) {
	filter := entity.DropdownFilter{
		DropdownType: r.URL.Query().Get("dropdownType"),
		IsActive:     boolFilter(r, "isActive"),
		Search:       r.URL.Query().Get("search"),
	}
	opts, pg, err := s.dropdowns.List(r.Context(), filter, listOptions(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderPage(w, r, "Dropdown options", opts, pg)
}

// listDropdownsByType serves both admin and frontend listing. Options missing
// a translation for the requested language come back in the default language.
func (s *Server) listDropdownsByType(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dropdowns.ListByType(r.Context(), chi.URLParam(r, "optionType"), languageToken(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Dropdown options", opts)
}

func (s *Server) updateDropdown(w http.ResponseWriter, r *http.Request) {
	data := &dropdownUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	opt, err := s.dropdowns.Update(r.Context(), chi.URLParam(r, "publicId"), entity.DropdownUpdate{
		Name:     data.Name,
		IsActive: data.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Dropdown option updated", opt)
}

func (s *Server) deleteDropdown(w http.ResponseWriter, r *http.Request) {
	if err := s.dropdowns.Delete(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Dropdown option deleted", nil)
}

func (s *Server) bulkUpdateDropdowns(w http.ResponseWriter, r *http.Request) {
	data := &bulkStatusRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.dropdowns.BulkUpdateStatus(r.Context(), data.PublicIds, data.IsActive)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Dropdown options updated", res)
}

func (s *Server) bulkDeleteDropdowns(w http.ResponseWriter, r *http.Request) {
	data := &bulkDeleteRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.dropdowns.BulkDelete(r.Context(), data.PublicIds)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Dropdown options deleted", res)
}
