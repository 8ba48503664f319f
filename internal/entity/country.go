package entity

import (
	"time"
)

// Country represents a supported country. UseCount tracks how many live
// records reference the country; deletion is refused while it is non-zero or
// while the country is the default.
type Country struct {
	Id        string    `db:"id" json:"id"`
	PublicId  string    `db:"public_id" json:"publicId"`
	Name      string    `db:"name" json:"name"`
	ISO2      string    `db:"iso2" json:"iso2"`
	ISO3      string    `db:"iso3" json:"iso3"`
	FlagImage string    `db:"flag_image" json:"flagImage"`
	IsDefault bool      `db:"is_default" json:"isDefault"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	UseCount  int       `db:"use_count" json:"useCount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CountryFilter struct {
	IsActive  *bool
	IsDefault *bool
	Search    string
}

type CountryUpdate struct {
	Name      *string
	ISO2      *string
	ISO3      *string
	FlagImage *string
	IsDefault *bool
	IsActive  *bool
}
