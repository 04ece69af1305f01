package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/xrdcal/geomodel/pkg/model"
)

// parseAssignment parses "field=value".
func parseAssignment(arg string) (string, float64, error) {
	name, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return "", 0, fmt.Errorf("invalid assignment %q, expected field=value", arg)
	}
	name = strings.TrimSpace(name)
	if err := model.CheckField(name); err != nil {
		return "", 0, err
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	if math.IsInf(v, 0) {
		return "", 0, fmt.Errorf("invalid %s: value must be finite (use nan or unset to clear it)", name)
	}

	return name, v, nil
}

func formatValue(v *float64) string {
	if v == nil {
		return color.New(color.Faint).Sprint("unset")
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
