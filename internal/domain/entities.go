package domain

import "time"

// Reference entities managed by the configuration screens. JSON tags follow
// the backend's French camelCase vocabulary.

type Country struct {
	ID        int64     `json:"id"`
	Name      string    `json:"pays"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Destinations []Destination `json:"destinations,omitempty"`
}

// CountryDetail is the drill-down projection: the country plus its
// requirement associations. Fetched separately from the list projection
// and never merged back into list items.
type CountryDetail struct {
	Country
	Associations []Association `json:"exigencesPaysVoyage,omitempty"`
}

type Destination struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	City      string    `json:"ville"`
	CountryID *int64    `json:"paysId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Requirement struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Perimeter   string    `json:"perimetre"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Association links a Country to a Requirement (many-to-many). The backend
// denormalizes both referenced entities for display; both embeds must be
// non-nil for a row to render.
type Association struct {
	ID            int64        `json:"id"`
	CountryID     int64        `json:"paysId"`
	RequirementID int64        `json:"exigenceVoyageId"`
	Country       *Country     `json:"pays"`
	Requirement   *Requirement `json:"exigenceVoyage"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type ServiceKind string

const (
	KindService  ServiceKind = "SERVICE"
	KindSpecific ServiceKind = "SPECIFIQUE"
)

type ServiceParameter struct {
	ID        int64       `json:"id"`
	Code      string      `json:"code"`
	Label     string      `json:"libelle"`
	Kind      ServiceKind `json:"type"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CancellationReason is reference data for the cancel dialog.
type CancellationReason struct {
	ID    int64  `json:"id"`
	Label string `json:"libelle"`
}
