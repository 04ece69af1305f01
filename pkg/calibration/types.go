package calibration

import "github.com/xrdcal/geomodel/pkg/model"

// Status is a synthesized view of the daemon's geometry. Missing lists the
// unset fields in canonical order and is empty when Valid is true.
type Status struct {
	Geometry model.Snapshot `json:"geometry"`
	Valid    bool           `json:"valid"`
	Missing  []string       `json:"missing,omitempty"`
}

// NewStatus builds a Status from a snapshot.
func NewStatus(snap model.Snapshot) Status {
	missing := snap.Missing()
	return Status{
		Geometry: snap,
		Valid:    len(missing) == 0,
		Missing:  missing,
	}
}

// FieldStatus is one geometry field. Value is nil when unset.
type FieldStatus struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Fields flattens the status into canonical field order.
func (s Status) Fields() []FieldStatus {
	names := model.Fields()
	out := make([]FieldStatus, 0, len(names))
	for _, name := range names {
		v, _ := s.Geometry.Get(name)
		out = append(out, FieldStatus{Name: name, Value: v})
	}
	return out
}
