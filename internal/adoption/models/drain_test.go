package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
)

func TestDrainUpdateApply(t *testing.T) {
	adopter := id.NewUserID()
	d := &Drain{Name: "Old", ImageURL: "a.png", Latitude: 1, Longitude: 2, AdoptedByUserID: &adopter}

	name := "New"
	lat := 45.5
	DrainUpdate{Name: &name, Latitude: &lat}.Apply(d)

	assert.Equal(t, "New", d.Name)
	assert.Equal(t, "a.png", d.ImageURL)
	assert.Equal(t, 45.5, d.Latitude)
	assert.Equal(t, 2.0, d.Longitude)
	assert.Equal(t, &adopter, d.AdoptedByUserID)
	assert.True(t, DrainUpdate{}.IsEmpty())
}

func TestRequestValidation(t *testing.T) {
	t.Run("create requires a name", func(t *testing.T) {
		err := (&CreateDrainRequest{Name: "  "}).Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("create checks coordinates", func(t *testing.T) {
		err := (&CreateDrainRequest{Name: "D", Latitude: 91}).Validate()
		assert.ErrorIs(t, err, dErrors.New(dErrors.CodeValidation, "latitude must be between -90 and 90"))
	})

	t.Run("update accepts an empty body", func(t *testing.T) {
		assert.NoError(t, (&UpdateDrainRequest{}).Validate())
	})

	t.Run("update trims name", func(t *testing.T) {
		name := " Main St "
		req := &UpdateDrainRequest{Name: &name}
		assert.NoError(t, req.Validate())
		assert.Equal(t, "Main St", *req.ToUpdate().Name)
	})

	t.Run("update rejects bad longitude", func(t *testing.T) {
		lon := -181.0
		assert.Error(t, (&UpdateDrainRequest{Longitude: &lon}).Validate())
	})
}
