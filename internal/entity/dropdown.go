package entity

import (
	"time"
)

// DropdownOption is one translated entry of an admin-managed dropdown.
// The same concept translated into N languages shares UniqueCode across those
// N rows, so (UniqueCode, LanguageId) is unique.
type DropdownOption struct {
	Id           string    `db:"id" json:"id"`
	PublicId     string    `db:"public_id" json:"publicId"`
	Name         string    `db:"name" json:"name"`
	UniqueCode   int64     `db:"unique_code" json:"uniqueCode"`
	DropdownType string    `db:"dropdown_type" json:"dropdownType"` // e.g. account-type
	LanguageId   string    `db:"language_id" json:"languageId"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	UseCount     int       `db:"use_count" json:"useCount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type DropdownFilter struct {
	DropdownType string
	LanguageId   string
	UniqueCode   *int64
	IsActive     *bool
	Search       string
}

type DropdownUpdate struct {
	Name     *string
	IsActive *bool
}
