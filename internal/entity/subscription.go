package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriberKind string

const (
	KindInvestor SubscriberKind = "INVESTOR"
	KindSponsor  SubscriberKind = "SPONSOR"
)

// RevenueSubscription is a paid plan offered to investors or sponsors.
// Kind-conditional fields: investor plans carry MaxInvestmentAllowed and
// SecondaryMarketAccess, sponsor plans carry MaxProjectCount and
// MaxProjectGoal. The other kind's fields must stay nil.
type RevenueSubscription struct {
	Id       string          `db:"id" json:"id"`
	PublicId string          `db:"public_id" json:"publicId"`
	Kind     SubscriberKind  `db:"kind" json:"kind"`
	Amount   decimal.Decimal `db:"amount" json:"amount"`

	MaxInvestmentAllowed  *decimal.Decimal `db:"max_investment_allowed" json:"maxInvestmentAllowed,omitempty"`
	SecondaryMarketAccess *bool            `db:"secondary_market_access" json:"secondaryMarketAccess,omitempty"`
	MaxProjectCount       *int             `db:"max_project_count" json:"maxProjectCount,omitempty"`
	MaxProjectGoal        *decimal.Decimal `db:"max_project_goal" json:"maxProjectGoal,omitempty"`

	RefundAllowed bool `db:"refund_allowed" json:"refundAllowed"`
	RefundDays    int  `db:"refund_days" json:"refundDays"`
	CancelAllowed bool `db:"cancel_allowed" json:"cancelAllowed"`
	CancelDays    int  `db:"cancel_days" json:"cancelDays"`

	IsActive  bool      `db:"is_active" json:"isActive"`
	UseCount  int       `db:"use_count" json:"useCount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Content holds the title/description rows resolved for the request
	// language, or all of them when listed for admins.
	Content []SubscriptionContent `db:"-" json:"content,omitempty"`
}

// SubscriptionContent is a per-language title/description row owned by a
// revenue subscription.
type SubscriptionContent struct {
	Id             string    `db:"id" json:"id"`
	SubscriptionId string    `db:"subscription_id" json:"subscriptionId"`
	LanguageId     string    `db:"language_id" json:"languageId"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

type SubscriptionFilter struct {
	Kind     *SubscriberKind
	IsActive *bool
	Search   string
}

type SubscriptionUpdate struct {
	Amount                *decimal.Decimal
	MaxInvestmentAllowed  *decimal.Decimal
	SecondaryMarketAccess *bool
	MaxProjectCount       *int
	MaxProjectGoal        *decimal.Decimal
	RefundAllowed         *bool
	RefundDays            *int
	CancelAllowed         *bool
	CancelDays            *int
	IsActive              *bool
}
