package daemon

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xrdcal/geomodel/pkg/calibration"
	"github.com/xrdcal/geomodel/pkg/events"
	"github.com/xrdcal/geomodel/pkg/model"
)

// store serializes access to the daemon's geometry. The model itself is not
// safe for concurrent use; every read and write goes through mu.
type store struct {
	mu  sync.Mutex
	geo *model.Geometry
	seq uint64
}

func newStore(hub *events.EventHub) *store {
	s := &store{geo: model.NewGeometry()}

	// Runs synchronously inside update, with mu held.
	s.geo.Changed().Connect(func() {
		s.seq++
		snap := s.geo.Snapshot()
		valid := s.geo.IsValid()

		logrus.WithFields(logrus.Fields{
			"seq":   s.seq,
			"valid": valid,
		}).Debug("geometry changed")

		hub.Publish(events.GeometryChanged, events.GeometryChangedEvent{
			ID:       uuid.NewString(),
			Seq:      s.seq,
			Valid:    valid,
			Geometry: snap,
			Ts:       time.Now().Unix(),
		})
	})

	return s
}

// view runs fn with the geometry locked. fn must not modify it.
func (s *store) view(fn func(g *model.Geometry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.geo)
}

// update runs fn with the geometry locked and returns the resulting status.
func (s *store) update(fn func(g *model.Geometry) error) (calibration.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.geo); err != nil {
		return calibration.Status{}, err
	}
	return calibration.NewStatus(s.geo.Snapshot()), nil
}

func (s *store) status() calibration.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calibration.NewStatus(s.geo.Snapshot())
}

// changes returns the number of aggregate change notifications so far.
func (s *store) changes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
