package model

import "math"

// Scalar holds one optional float64. A Scalar starts unset.
//
// Validity only means "a value has been assigned". No range checking is
// done: a negative distance is as valid as a positive one.
type Scalar struct {
	value   float64
	valid   bool
	changed Signal
}

// Value returns the current value. ok is false when the scalar is unset.
func (s *Scalar) Value() (v float64, ok bool) {
	return s.value, s.valid
}

// Set assigns v and emits Changed if the stored value differs. NaN is
// treated as "no value" and behaves like Unset.
func (s *Scalar) Set(v float64) {
	if math.IsNaN(v) {
		s.Unset()
		return
	}
	if s.valid && s.value == v {
		return
	}
	s.value = v
	s.valid = true
	s.changed.Emit()
}

// Unset clears the value and emits Changed if one was set.
func (s *Scalar) Unset() {
	if !s.valid {
		return
	}
	s.value = 0
	s.valid = false
	s.changed.Emit()
}

// Assign sets *v, or unsets the scalar when v is nil.
func (s *Scalar) Assign(v *float64) {
	if v == nil {
		s.Unset()
		return
	}
	s.Set(*v)
}

// Ptr returns a copy of the value, or nil when unset.
func (s *Scalar) Ptr() *float64 {
	if !s.valid {
		return nil
	}
	v := s.value
	return &v
}

// IsValid reports whether a value is set.
func (s *Scalar) IsValid() bool {
	return s.valid
}

// Changed is emitted after every effective modification.
func (s *Scalar) Changed() *Signal {
	return &s.changed
}
