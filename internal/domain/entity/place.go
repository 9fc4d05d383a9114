package entity

import (
	"time"

	"gorm.io/gorm"
)

// Place is a reference row for a known travel location: an IATA airport
// code, a rail station or a city. Known codes resolve to coordinates and a
// timezone without a network lookup.
type Place struct {
	ID        uint
	Code      string
	Name      string
	CityName  string
	Country   string
	TzName    string
	Lat       float64
	Lng       float64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// Coordinates returns the place position as a coordinate pair.
func (p *Place) Coordinates() *Coordinates {
	return &Coordinates{Lat: p.Lat, Lng: p.Lng}
}
