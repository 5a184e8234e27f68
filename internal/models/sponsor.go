package models

import "time"

// SponsorTier ranks sponsorship levels.
type SponsorTier string

const (
	SponsorTierTitle    SponsorTier = "title"
	SponsorTierGold     SponsorTier = "gold"
	SponsorTierSilver   SponsorTier = "silver"
	SponsorTierBronze   SponsorTier = "bronze"
	SponsorTierSupplier SponsorTier = "supplier"
)

// Valid returns true when the tier is a supported value.
func (t SponsorTier) Valid() bool {
	switch t {
	case SponsorTierTitle, SponsorTierGold, SponsorTierSilver, SponsorTierBronze, SponsorTierSupplier:
		return true
	default:
		return false
	}
}

// Sponsor records a sponsorship for a season.
type Sponsor struct {
	ID           string      `db:"id" json:"id"`
	SeasonID     string      `db:"season_id" json:"season_id"`
	Name         string      `db:"name" json:"name"`
	ContactName  *string     `db:"contact_name" json:"contact_name,omitempty"`
	ContactEmail *string     `db:"contact_email" json:"contact_email,omitempty"`
	Tier         SponsorTier `db:"tier" json:"tier"`
	AmountCents  int64       `db:"amount_cents" json:"amount_cents"`
	Active       bool        `db:"active" json:"active"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// SponsorFilter scopes sponsor listing queries.
type SponsorFilter struct {
	SeasonID  string
	Tier      *SponsorTier
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SponsorTotals summarises sponsorship income for a season.
type SponsorTotals struct {
	Count       int   `db:"count" json:"count"`
	AmountCents int64 `db:"amount_cents" json:"amount_cents"`
}
