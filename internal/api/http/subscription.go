package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/raisehub/admin-manager/internal/entity"
)

type subscriptionContentRequest struct {
	// Language accepts a language public id, raw id or empty for the default.
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c *subscriptionContentRequest) Bind(*http.Request) error { return nil }

type subscriptionRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`

	MaxInvestmentAllowed  *decimal.Decimal `json:"maxInvestmentAllowed"`
	SecondaryMarketAccess *bool            `json:"secondaryMarketAccess"`
	MaxProjectCount       *int             `json:"maxProjectCount"`
	MaxProjectGoal        *decimal.Decimal `json:"maxProjectGoal"`

	RefundAllowed bool `json:"refundAllowed"`
	RefundDays    int  `json:"refundDays"`
	CancelAllowed bool `json:"cancelAllowed"`
	CancelDays    int  `json:"cancelDays"`

	IsActive bool                         `json:"isActive"`
	Content  []subscriptionContentRequest `json:"content"`
}

func (s *subscriptionRequest) Bind(*http.Request) error { return nil }

type subscriptionUpdateRequest struct {
	Amount *decimal.Decimal `json:"amount"`

	MaxInvestmentAllowed  *decimal.Decimal `json:"maxInvestmentAllowed"`
	SecondaryMarketAccess *bool            `json:"secondaryMarketAccess"`
	MaxProjectCount       *int             `json:"maxProjectCount"`
	MaxProjectGoal        *decimal.Decimal `json:"maxProjectGoal"`

	RefundAllowed *bool `json:"refundAllowed"`
	RefundDays    *int  `json:"refundDays"`
	CancelAllowed *bool `json:"cancelAllowed"`
	CancelDays    *int  `json:"cancelDays"`

	IsActive *bool `json:"isActive"`
}

func (s *subscriptionUpdateRequest) Bind(*http.Request) error { return nil }

func contentFromRequest(rows []subscriptionContentRequest) []entity.SubscriptionContent {
	content := make([]entity.SubscriptionContent, 0, len(rows))
	for _, row := range rows {
		content = append(content, entity.SubscriptionContent{
			LanguageId:  row.Language,
			Title:       row.Title,
			Description: row.Description,
		})
	}
	return content
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	data := &subscriptionRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	sub, err := s.subscriptions.Create(r.Context(), entity.RevenueSubscription{
		Kind:                  entity.SubscriberKind(data.Kind),
		Amount:                data.Amount,
		MaxInvestmentAllowed:  data.MaxInvestmentAllowed,
		SecondaryMarketAccess: data.SecondaryMarketAccess,
		MaxProjectCount:       data.MaxProjectCount,
		MaxProjectGoal:        data.MaxProjectGoal,
		RefundAllowed:         data.RefundAllowed,
		RefundDays:            data.RefundDays,
		CancelAllowed:         data.CancelAllowed,
		CancelDays:            data.CancelDays,
		IsActive:              data.IsActive,
	}, contentFromRequest(data.Content))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusCreated, "Subscription created", sub)
}

// getSubscription resolves content for the caller's language; the full=true
// query returns every content row instead.
func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request) {
	publicId := chi.URLParam(r, "publicId")

	if full := boolFilter(r, "full"); full != nil && *full {
		sub, err := s.subscriptions.GetFull(r.Context(), publicId)
		if err != nil {
			renderError(w, r, err)
			return
		}
		renderData(w, r, http.StatusOK, "Subscription", sub)
		return
	}

	sub, err := s.subscriptions.Get(r.Context(), publicId, languageToken(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Subscription", sub)
}

func (s *Server) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	filter := entity.SubscriptionFilter{
		IsActive: boolFilter(r, "isActive"),
		Search:   r.URL.Query().Get("search"),
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := entity.SubscriberKind(kind)
		filter.Kind = &k
	}
	subs, pg, err := s.subscriptions.List(r.Context(), filter, listOptions(r), languageToken(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderPage(w, r, "Subscriptions", subs, pg)
}

func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request) {
	data := &subscriptionUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	sub, err := s.subscriptions.Update(r.Context(), chi.URLParam(r, "publicId"), entity.SubscriptionUpdate{
		Amount:                data.Amount,
		MaxInvestmentAllowed:  data.MaxInvestmentAllowed,
		SecondaryMarketAccess: data.SecondaryMarketAccess,
		MaxProjectCount:       data.MaxProjectCount,
		MaxProjectGoal:        data.MaxProjectGoal,
		RefundAllowed:         data.RefundAllowed,
		RefundDays:            data.RefundDays,
		CancelAllowed:         data.CancelAllowed,
		CancelDays:            data.CancelDays,
		IsActive:              data.IsActive,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Subscription updated", sub)
}

func (s *Server) upsertSubscriptionContent(w http.ResponseWriter, r *http.Request) {
	data := &subscriptionContentRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}

	sub, err := s.subscriptions.UpsertContent(r.Context(), chi.URLParam(r, "publicId"), entity.SubscriptionContent{
		LanguageId:  data.Language,
		Title:       data.Title,
		Description: data.Description,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Subscription content saved", sub)
}

func (s *Server) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := s.subscriptions.Delete(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Subscription deleted", nil)
}

func (s *Server) bulkUpdateSubscriptions(w http.ResponseWriter, r *http.Request) {
	data := &bulkStatusRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.subscriptions.BulkUpdateStatus(r.Context(), data.PublicIds, data.IsActive)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Subscriptions updated", res)
}

func (s *Server) bulkDeleteSubscriptions(w http.ResponseWriter, r *http.Request) {
	data := &bulkDeleteRequest{}
	if err := render.Bind(r, data); err != nil {
		renderInvalid(w, r, err)
		return
	}
	res, err := s.subscriptions.BulkDelete(r.Context(), data.PublicIds)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderData(w, r, http.StatusOK, "Subscriptions deleted", res)
}
