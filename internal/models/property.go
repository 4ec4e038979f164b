package models

import (
	"time"
)

// Property represents a real-estate asset held in the portfolio.
// Acquisition facts are immutable; current value and rent are revalued
// periodically by the storage layer, never by the engine.
type Property struct {
	ID               int64     `json:"id"`
	EntityID         int64     `json:"entity_id"`
	Name             string    `json:"name"`
	City             string    `json:"city"`
	PropertyType     string    `json:"property_type"`
	AcquisitionPrice float64   `json:"acquisition_price"`
	AcquisitionCosts float64   `json:"acquisition_costs"`
	AcquisitionDate  time.Time `json:"acquisition_date"`
	CurrentValue     float64   `json:"current_value"`
	SurfaceArea      float64   `json:"surface_area"`
	MonthlyRent      float64   `json:"monthly_rent"`
	LandFraction     float64   `json:"land_fraction"`
	FurnishingValue  float64   `json:"furnishing_value"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AnnualRent returns the gross rent over a full year at the current
// monthly rate.
func (p *Property) AnnualRent() float64 {
	return p.MonthlyRent * 12
}

// YearsHeld returns the number of whole years between the acquisition
// date and the given date, never negative.
func (p *Property) YearsHeld(at time.Time) int {
	years := at.Year() - p.AcquisitionDate.Year()
	anniversary := p.AcquisitionDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
