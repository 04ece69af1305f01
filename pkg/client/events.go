package client

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xrdcal/geomodel/pkg/events"
)

// SubscribeEvents streams daemon events until ctx is canceled or the daemon
// closes the stream. The returned channel is closed when streaming stops.
func (c *Client) SubscribeEvents(ctx context.Context) <-chan events.Event {
	out := make(chan events.Event, 16)

	go func() {
		defer close(out)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://unix/events", nil)
		if err != nil {
			logrus.WithError(err).Error("failed to create event request")
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() == nil {
				logrus.WithError(err).Error("failed to subscribe to events")
			}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			logrus.WithField("statusCode", resp.StatusCode).Error("unexpected event stream status")
			return
		}

		if err := readEvents(ctx, resp.Body, out); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Warn("event stream ended")
		}
	}()

	return out
}

// readEvents parses a text/event-stream body. Comment lines are skipped,
// multiple data lines are joined with newlines, and an event is dispatched
// on each blank line.
func readEvents(ctx context.Context, r io.Reader, out chan<- events.Event) error {
	var (
		name string
		data []string
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()

		if line == "" {
			if len(data) > 0 {
				ev := events.Event{Name: name, Data: []byte(strings.Join(data, "\n"))}
				select {
				case out <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			name, data = "", nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}

	return sc.Err()
}
