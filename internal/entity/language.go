package entity

import (
	"time"
)

type TextDirection string

const (
	DirectionLTR TextDirection = "ltr"
	DirectionRTL TextDirection = "rtl"
)

// Language represents a platform language. Exactly one active language is
// flagged as default; the flag is maintained by the service layer, not by a
// database constraint.
type Language struct {
	Id         string        `db:"id" json:"id"`
	PublicId   string        `db:"public_id" json:"publicId"`
	Name       string        `db:"name" json:"name"`
	FolderCode string        `db:"folder_code" json:"folderCode"` // locale folder, e.g. en, es
	ISO2       string        `db:"iso2" json:"iso2"`
	ISO3       string        `db:"iso3" json:"iso3"`
	FlagImage  string        `db:"flag_image" json:"flagImage"`
	Direction  TextDirection `db:"direction" json:"direction"`
	IsDefault  bool          `db:"is_default" json:"isDefault"`
	IsActive   bool          `db:"is_active" json:"isActive"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updatedAt"`
}

// LanguageFilter narrows language listings. Nil fields are ignored, Search
// matches name/folder code case-insensitively.
type LanguageFilter struct {
	IsActive  *bool
	IsDefault *bool
	Search    string
}

// LanguageUpdate carries mutable language fields. Nil fields are left
// untouched.
type LanguageUpdate struct {
	Name       *string
	FolderCode *string
	ISO2       *string
	ISO3       *string
	FlagImage  *string
	Direction  *TextDirection
	IsDefault  *bool
	IsActive   *bool
}
