package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/raisehub/admin-manager/internal/entity"
)

type currencyRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	IsActive bool   `json:"isActive"`
}

func (c *currencyRequest) Bind(*http.Request) error { return nil }

type currencyUpdateRequest struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	Symbol   *string `json:"symbol"`
	IsActive *bool   `json:"isActive"`
}

func (c *currencyUpdateRequest) Bind(*http.Request) error { return nil }

func (s *Server) createCurrency(w http.ResponseWriter, r *http.Request) {
	data := &currencyRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	c, err := s.currencies.Create(r.Context(), entity.Currency{
		Name:     data.Name,
		Code:     data.Code,
		Symbol:   data.Symbol,
		IsActive: data.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusCreated, "Currency created", c)
}

func (s *Server) getCurrency(w http.ResponseWriter, r *http.Request) {
	c, err := s.currencies.Get(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Currency", c)
}

func (s *Server) listCurrencies(w http.ResponseWriter, r *http.Request) {
	filter := entity.CurrencyFilter{
		IsActive: boolFilter(r, "isActive"),
		Search:   r.URL.Query().Get("search"),
	}
	currencies, pg, err := s.currencies.List(r.Context(), filter, listOptions(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderPage(w, r, "Currencies", currencies, pg)
}

func (s *Server) updateCurrency(w http.ResponseWriter, r *http.Request) {
	data := &currencyUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	c, err := s.currencies.Update(r.Context(), chi.URLParam(r, "publicId"), entity.CurrencyUpdate{
		Name:     data.Name,
		Code:     data.Code,
		Symbol:   data.Symbol,
		IsActive: data.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Currency updated", c)
}

func (s *Server) deleteCurrency(w http.ResponseWriter, r *http.Request) {
	if err := s.currencies.Delete(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Currency deleted", nil)
}

func (s *Server) bulkUpdateCurrencies(w http.ResponseWriter, r *http.Request) {
	data := &bulkStatusRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.currencies.BulkUpdateStatus(r.Context(), data.PublicIds, data.IsActive)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Currencies updated", res)
}

func (s *Server) bulkDeleteCurrencies(w http.ResponseWriter, r *http.Request) {
	data := &bulkDeleteRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.currencies.BulkDelete(r.Context(), data.PublicIds)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Currencies deleted", res)
}
