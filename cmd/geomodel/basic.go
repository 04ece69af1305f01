package main

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xrdcal/geomodel/pkg/client"
	"github.com/xrdcal/geomodel/pkg/model"
)

func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get [field...]",
		Short:   "Print geometry field values",
		GroupID: gBasic,
		Long: `Print geometry field values.

Without arguments, all seven fields are printed. Unset fields print as "unset".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = model.Fields()
			}

			for _, name := range args {
				if err := model.CheckField(name); err != nil {
					return err
				}
			}

			for _, name := range args {
				v, err := apiClient.GetField(name)
				if err != nil {
					return err
				}
				cmd.Printf("%s: %s\n", name, formatValue(v))
			}

			return nil
		},
	}
}

func NewSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set field=value [field=value...]",
		Short:   "Set geometry fields",
		GroupID: gBasic,
		Long: `Set one or more geometry fields.

Values are plain numbers and are not range checked. Several assignments are
sent as one update, so subscribers see a single change.

Example:
  geomodel set distance=0.1 wavelength=1.54e-10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			values := make(map[string]float64, len(args))
			order := make([]string, 0, len(args))
			for _, arg := range args {
				name, v, err := parseAssignment(arg)
				if err != nil {
					return err
				}
				if _, dup := values[name]; !dup {
					order = append(order, name)
				}
				values[name] = v
			}

			if len(order) == 1 {
				name := order[0]
				ret, err := apiClient.SetField(name, values[name])
				if err != nil {
					return fmt.Errorf("failed to set %s: %w", name, err)
				}
				logrus.Infof("daemon responded: %s", client.Message(ret))
				return nil
			}

			// Read-modify-write: fields not named keep the value read here.
			st, err := apiClient.GetGeometry()
			if err != nil {
				return err
			}
			snap := st.Geometry
			for _, name := range order {
				v := values[name]
				val := &v
				if math.IsNaN(v) {
					val = nil
				}
				snap, err = snap.With(name, val)
				if err != nil {
					return err
				}
			}

			st, err = apiClient.SetGeometry(snap)
			if err != nil {
				return err
			}

			logrus.WithField("valid", st.Valid).Infof("successfully set %v", order)
			return nil
		},
	}
}

func NewUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "unset field [field...]",
		Short:   "Unset geometry fields",
		GroupID: gBasic,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, name := range args {
				if err := model.CheckField(name); err != nil {
					return err
				}
			}

			for _, name := range args {
				ret, err := apiClient.UnsetField(name)
				if err != nil {
					return fmt.Errorf("failed to unset %s: %w", name, err)
				}
				logrus.Infof("daemon responded: %s", client.Message(ret))
			}

			return nil
		},
	}
}

func NewClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Unset every geometry field",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := apiClient.ClearGeometry(); err != nil {
				return err
			}
			logrus.Info("successfully cleared geometry")
			return nil
		},
	}
}
