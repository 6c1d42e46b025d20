package models

import "time"

// Coordinates is a geocoded point in degrees.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Address caches the geocoding result for one exact address string. Orders and
// restaurants refer to it by value, not by foreign key. A row with NULL
// coordinates records a lookup that already failed.
type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Address   string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"address"`
	Lat       *float64  `json:"lat"`
	Lon       *float64  `json:"lon"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// Coordinates returns nil unless both lat and lon are known.
func (a *Address) Coordinates() *Coordinates {
	if a == nil || a.Lat == nil || a.Lon == nil {
		return nil
	}
	return &Coordinates{Lon: *a.Lon, Lat: *a.Lat}
}
