package entities

import "time"

// Fee is a (hospital, treatment) price record used for comparison tables.
// Fees have no lifecycle coupling to reservations beyond display.
type Fee struct {
	ID              string    `json:"id" db:"id"`
	HospitalID      string    `json:"hospital_id" db:"hospital_id"`
	Treatment       string    `json:"treatment" db:"treatment"`
	MinPrice        float64   `json:"min_price" db:"min_price"`
	MaxPrice        float64   `json:"max_price" db:"max_price"`
	Currency        string    `json:"currency" db:"currency"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Promotion is a time-bounded hospital discount shown to patients
type Promotion struct {
	ID              string    `json:"id" db:"id"`
	HospitalID      string    `json:"hospital_id" db:"hospital_id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	ValidFrom       time.Time `json:"valid_from" db:"valid_from"`
	ValidUntil      time.Time `json:"valid_until" db:"valid_until"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
