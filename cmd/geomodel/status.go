package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/xrdcal/geomodel/pkg/calibration"
)

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current geometry and whether it is complete",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := apiClient.GetGeometry()
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				return nil
			}

			printStatus(cmd, st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func printStatus(cmd *cobra.Command, st *calibration.Status) {
	cmd.Println(bold("Geometry:"))
	for _, f := range st.Fields() {
		cmd.Printf("  %-11s %s\n", f.Name+":", formatValue(f.Value))
	}

	cmd.Println()
	cmd.Printf("Complete: %s\n", bool2Text(st.Valid))
	if !st.Valid {
		cmd.Printf("  Missing: %v\n", st.Missing)
	}
}
