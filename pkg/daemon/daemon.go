package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xrdcal/geomodel/pkg/config"
	"github.com/xrdcal/geomodel/pkg/events"
	"github.com/xrdcal/geomodel/pkg/model"
)

func init() {
	// Reject misspelled field names in bulk geometry updates.
	binding.EnableDecoderDisallowUnknownFields = true
}

// Daemon hosts one geometry model and exposes it over HTTP.
type Daemon struct {
	conf  config.Config
	hub   *events.EventHub
	store *store
}

// New creates a daemon and applies the configured geometry defaults.
func New(conf config.Config) *Daemon {
	hub := events.NewEventHub(conf.EventBuffer())
	d := &Daemon{
		conf:  conf,
		hub:   hub,
		store: newStore(hub),
	}
	d.applyDefaults()
	return d
}

func (d *Daemon) applyDefaults() {
	defaults := d.conf.Defaults()
	if len(defaults) == 0 {
		return
	}

	st, _ := d.store.update(func(g *model.Geometry) error {
		snap := g.Snapshot()
		for field, v := range defaults {
			v := v
			next, err := snap.With(field, &v)
			if err != nil {
				logrus.WithError(err).Warn("ignoring default for unknown geometry field")
				continue
			}
			snap = next
		}
		g.SetFrom(snap)
		return nil
	})

	logrus.WithFields(logrus.Fields{
		"valid":   st.Valid,
		"missing": st.Missing,
	}).Info("applied geometry defaults")
}

func (d *Daemon) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/config", d.getConfig)
	router.GET("/version", d.getVersion)
	router.GET("/geometry", d.getGeometry)
	router.PUT("/geometry", d.setGeometry)
	router.DELETE("/geometry", d.clearGeometry)
	router.GET("/geometry/:field", d.getField)
	router.PUT("/geometry/:field", d.setField)
	router.DELETE("/geometry/:field", d.unsetField)
	router.GET("/valid", d.getValid)
	router.GET("/events", d.streamEvents)

	return router
}

// Close ends every open event stream. The geometry stays usable.
func (d *Daemon) Close() {
	d.hub.Close()
}

// Handler returns the daemon's HTTP API.
func (d *Daemon) Handler() http.Handler {
	return d.setupRoutes()
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config during startup")
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	d := New(conf)

	// Receive SIGHUP to reload config. Geometry defaults and the event
	// buffer size only take effect on restart.
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler: d.Handler(),
	}
	// Event streams never go idle on their own; end them so Shutdown does
	// not wait for its timeout.
	srv.RegisterOnShutdown(d.Close)

	// A socket left behind by a crashed daemon would make Listen fail.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove stale socket %s", unixSocketPath)
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", unixSocketPath)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			_ = l.Close()
			return pkgerrors.Wrapf(err, "failed to chmod %s", unixSocketPath)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.WithField("changes", d.store.changes()).Info("exiting")
	return nil
}
