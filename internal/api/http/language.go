package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/raisehub/admin-manager/internal/entity"
)

type languageRequest struct {
	Name       string `json:"name"`
	FolderCode string `json:"folderCode"`
	ISO2       string `json:"iso2"`
	ISO3       string `json:"iso3"`
	FlagImage  string `json:"flagImage"`
	Direction  string `json:"direction"`
	IsDefault  bool   `json:"isDefault"`
	IsActive   bool   `json:"isActive"`
}

func (l *languageRequest) Bind(*http.Request) error { return nil }

type languageUpdateRequest struct {
	Name       *string `json:"name"`
	FolderCode *string `json:"folderCode"`
	ISO2       *string `json:"iso2"`
	ISO3       *string `json:"iso3"`
	FlagImage  *string `json:"flagImage"`
	Direction  *string `json:"direction"`
	IsDefault  *bool   `json:"isDefault"`
	IsActive   *bool   `json:"isActive"`
}

func (l *languageUpdateRequest) Bind(*http.Request) error { return nil }

func (s *Server) createLanguage(w http.ResponseWriter, r *http.Request) {
	data := &languageRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	lang, err := s.languages.Create(r.Context(), entity.Language{
		Name:       data.Name,
		FolderCode: data.FolderCode,
		ISO2:       data.ISO2,
		ISO3:       data.ISO3,
		FlagImage:  data.FlagImage,
		Direction:  entity.TextDirection(data.Direction),
		IsDefault:  data.IsDefault,
		IsActive:   data.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusCreated, "Language created", lang)
}

func (s *Server) getLanguage(w http.ResponseWriter, r *http.Request) {
	lang, err := s.languages.Get(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Language", lang)
}

func (s *Server) listLanguages(w http.ResponseWriter, r *http.Request) {
	filter := entity.LanguageFilter{
		IsActive:  boolFilter(r, "isActive"),
		IsDefault: boolFilter(r, "isDefault"),
		Search:    r.URL.Query().Get("search"),
	}
	langs, pg, err := s.languages.List(r.Context(), filter, listOptions(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderPage(w, r, "Languages", langs, pg)
}

func (s *Server) listActiveLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.languages.ListActive(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Languages", langs)
}

func (s *Server) updateLanguage(w http.ResponseWriter, r *http.Request) {
	data := &languageUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	upd := entity.LanguageUpdate{
		Name:       data.Name,
		FolderCode: data.FolderCode,
		ISO2:       data.ISO2,
		ISO3:       data.ISO3,
		FlagImage:  data.FlagImage,
		IsDefault:  data.IsDefault,
		IsActive:   data.IsActive,
	}
	if data.Direction != nil {
		d := entity.TextDirection(*data.Direction)
		upd.Direction = &d
	}

	lang, err := s.languages.Update(r.Context(), chi.URLParam(r, "publicId"), upd)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Language updated", lang)
}

func (s *Server) deleteLanguage(w http.ResponseWriter, r *http.Request) {
	if err := s.languages.Delete(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Language deleted", nil)
}

func (s *Server) bulkUpdateLanguages(w http.ResponseWriter, r *http.Request) {
	data := &bulkStatusRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.languages.BulkUpdateStatus(r.Context(), data.PublicIds, data.IsActive)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Languages updated", res)
}

func (s *Server) bulkDeleteLanguages(w http.ResponseWriter, r *http.Request) {
	data := &bulkDeleteRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.languages.BulkDelete(r.Context(), data.PublicIds)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Languages deleted", res)
}
