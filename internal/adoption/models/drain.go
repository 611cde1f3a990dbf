package models

import (
	"time"

	id "drainadopt/pkg/domain"
)

// Drain is a storm drain. AdoptedByUserID is the drain side of the adoption
// link; it is nil or names a user whose adopted drain is this one.
type Drain struct {
	ID              id.DrainID
	Name            string
	ImageURL        string
	Latitude        float64
	Longitude       float64
	AdoptedByUserID *id.UserID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdopted reports whether the drain has an adopter.
func (d *Drain) IsAdopted() bool {
	return d.AdoptedByUserID != nil
}

// NewDrain carries the fields of a drain being created.
type NewDrain struct {
	Name      string
	ImageURL  string
	Latitude  float64
	Longitude float64
}

// DrainUpdate is a partial update; nil fields are left unchanged.
type DrainUpdate struct {
	Name      *string
	ImageURL  *string
	Latitude  *float64
	Longitude *float64
}

// IsEmpty reports whether the update changes nothing.
func (u DrainUpdate) IsEmpty() bool {
	return u.Name == nil && u.ImageURL == nil && u.Latitude == nil && u.Longitude == nil
}

// Apply merges the non-nil fields into d. The adoption link is never touched.
func (u DrainUpdate) Apply(d *Drain) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.ImageURL != nil {
		d.ImageURL = *u.ImageURL
	}
	if u.Latitude != nil {
		d.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		d.Longitude = *u.Longitude
	}
}

// View is the public projection of a drain.
type View struct {
	ID              id.DrainID `json:"id"`
	Name            string     `json:"name"`
	ImageURL        string     `json:"imageUrl"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	AdoptedByUserID *id.UserID `json:"adoptedByUserId"`
}

// ToView projects d for API responses.
func (d *Drain) ToView() View {
	return View{
		ID:              d.ID,
		Name:            d.Name,
		ImageURL:        d.ImageURL,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		AdoptedByUserID: d.AdoptedByUserID,
	}
}
