package model

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Geometry field names, in canonical order.
const (
	FieldDistance   = "distance"
	FieldWavelength = "wavelength"
	FieldPoni1      = "poni1"
	FieldPoni2      = "poni2"
	FieldRotation1  = "rotation1"
	FieldRotation2  = "rotation2"
	FieldRotation3  = "rotation3"
)

var fieldNames = []string{
	FieldDistance,
	FieldWavelength,
	FieldPoni1,
	FieldPoni2,
	FieldRotation1,
	FieldRotation2,
	FieldRotation3,
}

// ErrUnknownField is returned when a field name does not name one of the
// seven geometry parameters.
var ErrUnknownField = errors.New("unknown geometry field")

// Geometry is the detector geometry being calibrated: sample-detector
// distance, wavelength, the point of normal incidence (poni1, poni2) and
// three rotations.
//
// Every field is an independent Scalar owned by the Geometry. A change to
// any of them is re-emitted once on the Geometry's own Changed signal.
// A Geometry must not be copied after NewGeometry.
type Geometry struct {
	distance   Scalar
	wavelength Scalar
	poni1      Scalar
	poni2      Scalar
	rotation1  Scalar
	rotation2  Scalar
	rotation3  Scalar

	changed Signal
}

// NewGeometry returns a Geometry with every field unset.
func NewGeometry() *Geometry {
	g := &Geometry{}
	for _, s := range g.scalars() {
		s.Changed().Connect(g.changed.Emit)
	}
	return g
}

func (g *Geometry) scalars() []*Scalar {
	return []*Scalar{
		&g.distance,
		&g.wavelength,
		&g.poni1,
		&g.poni2,
		&g.rotation1,
		&g.rotation2,
		&g.rotation3,
	}
}

func (g *Geometry) Distance() *Scalar   { return &g.distance }
func (g *Geometry) Wavelength() *Scalar { return &g.wavelength }
func (g *Geometry) Poni1() *Scalar      { return &g.poni1 }
func (g *Geometry) Poni2() *Scalar      { return &g.poni2 }
func (g *Geometry) Rotation1() *Scalar  { return &g.rotation1 }
func (g *Geometry) Rotation2() *Scalar  { return &g.rotation2 }
func (g *Geometry) Rotation3() *Scalar  { return &g.rotation3 }

// Changed is emitted once for every effective change of any field, and once
// per SetFrom or Clear batch.
func (g *Geometry) Changed() *Signal {
	return &g.changed
}

// IsValid reports whether all seven fields are set.
func (g *Geometry) IsValid() bool {
	for _, s := range g.scalars() {
		if !s.IsValid() {
			return false
		}
	}
	return true
}

// Fields returns the field names in canonical order.
func Fields() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}

// CheckField returns ErrUnknownField unless name is one of the seven fields.
func CheckField(name string) error {
	for _, f := range fieldNames {
		if f == name {
			return nil
		}
	}
	return pkgerrors.Wrapf(ErrUnknownField, "%q", name)
}

// Field looks a field up by name.
func (g *Geometry) Field(name string) (*Scalar, error) {
	for i, s := range g.scalars() {
		if fieldNames[i] == name {
			return s, nil
		}
	}
	return nil, pkgerrors.Wrapf(ErrUnknownField, "%q", name)
}

// Snapshot copies the current values.
func (g *Geometry) Snapshot() Snapshot {
	var snap Snapshot
	dst := snap.ptrs()
	for i, s := range g.scalars() {
		*dst[i] = s.Ptr()
	}
	return snap
}

// SetFrom assigns every field from snap; nil fields are unset. Per-field
// signals fire as usual, but Changed is emitted at most once for the batch.
func (g *Geometry) SetFrom(snap Snapshot) {
	g.changed.Lock()
	defer g.changed.Unlock()

	src := snap.ptrs()
	for i, s := range g.scalars() {
		s.Assign(*src[i])
	}
}

// Clear unsets every field, emitting Changed at most once.
func (g *Geometry) Clear() {
	g.SetFrom(Snapshot{})
}
