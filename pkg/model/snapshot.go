package model

import (
	pkgerrors "github.com/pkg/errors"
)

// Snapshot is a detached copy of a Geometry. A nil field is unset.
type Snapshot struct {
	Distance   *float64 `json:"distance"`
	Wavelength *float64 `json:"wavelength"`
	Poni1      *float64 `json:"poni1"`
	Poni2      *float64 `json:"poni2"`
	Rotation1  *float64 `json:"rotation1"`
	Rotation2  *float64 `json:"rotation2"`
	Rotation3  *float64 `json:"rotation3"`
}

// ptrs is aligned with fieldNames.
func (s *Snapshot) ptrs() []**float64 {
	return []**float64{
		&s.Distance,
		&s.Wavelength,
		&s.Poni1,
		&s.Poni2,
		&s.Rotation1,
		&s.Rotation2,
		&s.Rotation3,
	}
}

// Get returns the named field, nil when unset.
func (s Snapshot) Get(name string) (*float64, error) {
	for i, p := range s.ptrs() {
		if fieldNames[i] == name {
			return *p, nil
		}
	}
	return nil, pkgerrors.Wrapf(ErrUnknownField, "%q", name)
}

// With returns a copy of s with the named field replaced.
func (s Snapshot) With(name string, v *float64) (Snapshot, error) {
	for i, p := range s.ptrs() {
		if fieldNames[i] == name {
			*p = v
			return s, nil
		}
	}
	return s, pkgerrors.Wrapf(ErrUnknownField, "%q", name)
}

// Missing lists the unset fields in canonical order.
func (s Snapshot) Missing() []string {
	var missing []string
	for i, p := range s.ptrs() {
		if *p == nil {
			missing = append(missing, fieldNames[i])
		}
	}
	return missing
}

// IsValid reports whether every field is set.
func (s Snapshot) IsValid() bool {
	return len(s.Missing()) == 0
}
