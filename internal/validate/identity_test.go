package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/internal/entity"
)

func targetShip() *entity.Ship {
	return &entity.Ship{
		ID:   uuid.New(),
		Name: "PACIFIC GLORY",
		IMO:  "9176187",
	}
}

func TestValidate_IMOConflictIsAlwaysHard(t *testing.T) {
	v := NewIdentityValidator(nil)

	out := v.Validate("9876543", "PACIFIC GLORY", targetShip())
	assert.Equal(t, HardMismatch, out.Result)
	assert.True(t, out.Blocking())
	assert.NotEmpty(t, out.Message)
	assert.Nil(t, out.Note)
}

func TestValidate_IMOMatchProceeds(t *testing.T) {
	v := NewIdentityValidator(nil)

	out := v.Validate("9176187", "PACIFIC GLORY", targetShip())
	assert.Equal(t, Match, out.Result)
	assert.False(t, out.Blocking())
	assert.Nil(t, out.Note)
}

func TestValidate_NameOnlyMismatchIsSoft(t *testing.T) {
	v := NewIdentityValidator(nil)

	// IMO matches, name differs
	out := v.Validate("9176187", "OCEAN STAR", targetShip())
	assert.Equal(t, SoftMismatch, out.Result)
	assert.False(t, out.Blocking())
	require.NotNil(t, out.Note)
	assert.Equal(t, ReferenceOnlyNote, *out.Note)

	// IMO absent on document, name differs
	out = v.Validate("", "OCEAN STAR", targetShip())
	assert.Equal(t, SoftMismatch, out.Result)
	require.NotNil(t, out.Note)
}

func TestValidate_BothAbsentCannotContradict(t *testing.T) {
	v := NewIdentityValidator(nil)

	out := v.Validate("", "", targetShip())
	assert.Equal(t, Match, out.Result)
	assert.Nil(t, out.Note)
}

func TestValidate_IMOLabelNoiseAndVesselPrefix(t *testing.T) {
	v := NewIdentityValidator(nil)

	out := v.Validate("IMO No. 9176187", "M/V Pacific Glory", targetShip())
	assert.Equal(t, Match, out.Result)
}

func TestNormalizeIMO(t *testing.T) {
	assert.Equal(t, "9176187", NormalizeIMO("IMO 9176187"))
	assert.Equal(t, "9176187", NormalizeIMO("9176187"))
	assert.Equal(t, "", NormalizeIMO("no number here"))
	assert.Equal(t, "", NormalizeIMO("12345"))
}
