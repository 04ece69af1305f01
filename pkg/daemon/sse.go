package daemon

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var keepAliveInterval = 30 * time.Second

// streamEvents relays hub events to the client as server-sent events until
// the client goes away.
func (d *Daemon) streamEvents(c *gin.Context) {
	ch := d.hub.Subscribe()
	defer d.hub.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	logrus.WithField("subscribers", d.hub.SubscriberCount()).Debug("event stream opened")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	// Send something right away so clients see the stream is open.
	_, _ = io.WriteString(c.Writer, ": connected\n\n")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": keepalive\n\n")
			return err == nil
		case <-c.Request.Context().Done():
			return false
		}
	})

	logrus.Debug("event stream closed")
}
