package entity

import (
	"time"
)

// Currency represents a platform currency. Code is the uppercased 3-letter
// ISO 4217 code and is unique.
type Currency struct {
	Id        string    `db:"id" json:"id"`
	PublicId  string    `db:"public_id" json:"publicId"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	Symbol    string    `db:"symbol" json:"symbol"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	UseCount  int       `db:"use_count" json:"useCount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CurrencyFilter struct {
	IsActive *bool
	Search   string
}

type CurrencyUpdate struct {
	Name     *string
	Code     *string
	Symbol   *string
	IsActive *bool
}
