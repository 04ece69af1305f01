package events

import (
	"encoding/json"

	"github.com/xrdcal/geomodel/pkg/model"
)

// Event name constants
const (
	GeometryChanged = "geometry.changed"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// GeometryChangedEvent is the typed payload for geometry.changed. It is
// published once per aggregate change of the daemon's geometry and carries
// the state after the change.
type GeometryChangedEvent struct {
	ID       string         `json:"id"`
	Seq      uint64         `json:"seq"`
	Valid    bool           `json:"valid"`
	Geometry model.Snapshot `json:"geometry"`
	Ts       int64          `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.GeometryChangedEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Seq, payload.Valid)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
