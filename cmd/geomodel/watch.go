package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xrdcal/geomodel/pkg/calibration"
	"github.com/xrdcal/geomodel/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		GroupID: gAdvanced,
		Short:   "Print the geometry every time it changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Fail fast with a useful error if the daemon is not there.
			if _, err := apiClient.GetVersion(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for ev := range apiClient.SubscribeEvents(ctx) {
				if ev.Name != events.GeometryChanged {
					logrus.WithField("event", ev.Name).Debug("ignoring event")
					continue
				}

				payload, err := events.DecodeAs[events.GeometryChangedEvent](ev)
				if err != nil {
					logrus.WithError(err).Error("failed to decode geometry.changed event")
					continue
				}

				cmd.Printf("%s change #%d\n", bold("%s", time.Unix(payload.Ts, 0).Format(time.Kitchen)), payload.Seq)
				st := calibration.NewStatus(payload.Geometry)
				printStatus(cmd, &st)
				cmd.Println()
			}

			return nil
		},
	}
}
