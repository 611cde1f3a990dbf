package models

import (
	"strings"

	dErrors "drainadopt/pkg/domain-errors"
)

// CreateDrainRequest is the body of POST /drains.
type CreateDrainRequest struct {
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *CreateDrainRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return validateCoordinates(&r.Latitude, &r.Longitude)
}

// ToNewDrain converts the request to the engine's input.
func (r *CreateDrainRequest) ToNewDrain() NewDrain {
	return NewDrain{Name: r.Name, ImageURL: r.ImageURL, Latitude: r.Latitude, Longitude: r.Longitude}
}

// UpdateDrainRequest is the body of PUT /drains/{id}. Absent fields stay unchanged.
type UpdateDrainRequest struct {
	Name      *string  `json:"name"`
	ImageURL  *string  `json:"imageUrl"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *UpdateDrainRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "name must not be blank")
		}
		r.Name = &name
	}
	return validateCoordinates(r.Latitude, r.Longitude)
}

// ToUpdate converts the request to the engine's input.
func (r *UpdateDrainRequest) ToUpdate() DrainUpdate {
	return DrainUpdate{Name: r.Name, ImageURL: r.ImageURL, Latitude: r.Latitude, Longitude: r.Longitude}
}

func validateCoordinates(lat, lon *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return dErrors.New(dErrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		return dErrors.New(dErrors.CodeValidation, "longitude must be between -180 and 180")
	}
	return nil
}
