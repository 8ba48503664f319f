package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/raisehub/admin-manager/internal/entity"
)

type countryRequest struct {
	Name      string `json:"name"`
	ISO2      string `json:"iso2"`
	ISO3      string `json:"iso3"`
	FlagImage string `json:"flagImage"` // raw base64 data URL, uploaded on create
	IsDefault bool   `json:"isDefault"`
	IsActive  bool   `json:"isActive"`
}

func (c *countryRequest) Bind(*http.Request) error { return nil }

type countryUpdateRequest struct {
	Name      *string `json:"name"`
	ISO2      *string `json:"iso2"`
	ISO3      *string `json:"iso3"`
	FlagImage *string `json:"flagImage"`
	IsDefault *bool   `json:"isDefault"`
	IsActive  *bool   `json:"isActive"`
}

func (c *countryUpdateRequest) Bind(*http.Request) error { return nil }

func (s *Server) createCountry(w http.ResponseWriter, r *http.Request) {
	data := &countryRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	c, err := s.countries.Create(r.Context(), entity.Country{
		Name:      data.Name,
		ISO2:      data.ISO2,
		ISO3:      data.ISO3,
		IsDefault: data.IsDefault,
		IsActive:  data.IsActive,
	}, data.FlagImage)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusCreated, "Country created", c)
}

func (s *Server) getCountry(w http.ResponseWriter, r *http.Request) {
	c, err := s.countries.Get(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Country", c)
}

func (s *Server) listCountries(w http.ResponseWriter, r *http.Request) {
	filter := entity.CountryFilter{
		IsActive:  boolFilter(r, "isActive"),
		IsDefault: boolFilter(r, "isDefault"),
		Search:    r.URL.Query().Get("search"),
	}
	countries, pg, err := s.countries.List(r.Context(), filter, listOptions(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderPage(w, r, "Countries", countries, pg)
}

func (s *Server) updateCountry(w http.ResponseWriter, r *http.Request) {
	data := &countryUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	c, err := s.countries.Update(r.Context(), chi.URLParam(r, "publicId"), entity.CountryUpdate{
		Name:      data.Name,
		ISO2:      data.ISO2,
		ISO3:      data.ISO3,
		FlagImage: data.FlagImage,
		IsDefault: data.IsDefault,
		IsActive:  data.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Country updated", c)
}

func (s *Server) deleteCountry(w http.ResponseWriter, r *http.Request) {
	if err := s.countries.Delete(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Country deleted", nil)
}

func (s *Server) bulkUpdateCountries(w http.ResponseWriter, r *http.Request) {
	data := &bulkStatusRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.countries.BulkUpdateStatus(r.Context(), data.PublicIds, data.IsActive)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Countries updated", res)
}

func (s *Server) bulkDeleteCountries(w http.ResponseWriter, r *http.Request) {
	data := &bulkDeleteRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.countries.BulkDelete(r.Context(), data.PublicIds)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Countries deleted", res)
}
