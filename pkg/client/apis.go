package client

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/xrdcal/geomodel/pkg/calibration"
	"github.com/xrdcal/geomodel/pkg/config"
	"github.com/xrdcal/geomodel/pkg/model"
)

func fieldPath(name string) string {
	return "/geometry/" + url.PathEscape(name)
}

func (c *Client) GetGeometry() (*calibration.Status, error) {
	ret, err := c.Get("/geometry")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get geometry")
	}
	var st calibration.Status
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal geometry")
	}
	return &st, nil
}

// SetGeometry replaces every field; nil fields in snap are unset.
func (c *Client) SetGeometry(snap model.Snapshot) (*calibration.Status, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	ret, err := c.Put("/geometry", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to set geometry")
	}
	var st calibration.Status
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal geometry")
	}
	return &st, nil
}

func (c *Client) ClearGeometry() error {
	_, err := c.Delete("/geometry")
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to clear geometry")
	}
	return nil
}

// GetField returns the field value, or nil when it is unset.
func (c *Client) GetField(name string) (*float64, error) {
	ret, err := c.Get(fieldPath(name))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get %s", name)
	}
	var v *float64
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal %s", name)
	}
	return v, nil
}

// SetField sets a field. NaN unsets it; infinities cannot be sent as JSON
// and are rejected.
func (c *Client) SetField(name string, v float64) (string, error) {
	if math.IsInf(v, 0) {
		return "", pkgerrors.Errorf("%s cannot be infinite", name)
	}
	if math.IsNaN(v) {
		return c.Put(fieldPath(name), "null")
	}
	return c.Put(fieldPath(name), strconv.FormatFloat(v, 'g', -1, 64))
}

func (c *Client) UnsetField(name string) (string, error) {
	return c.Delete(fieldPath(name))
}

func (c *Client) IsValid() (bool, error) {
	ret, err := c.Get("/valid")
	if err != nil {
		return false, pkgerrors.Wrapf(err, "failed to get geometry validity")
	}
	return parseBoolResponse(ret)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}
	var rawConfig config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &rawConfig); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}
	return &rawConfig, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	var ver string
	if err := json.Unmarshal([]byte(ret), &ver); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return ver, nil
}

// Message decodes a plain daemon response such as "set distance to 0.1".
func Message(ret string) string {
	var msg string
	if err := json.Unmarshal([]byte(ret), &msg); err != nil {
		return ret
	}
	return msg
}

func parseBoolResponse(resp string) (bool, error) {
	var b bool
	if err := json.Unmarshal([]byte(resp), &b); err != nil {
		return false, pkgerrors.Wrapf(err, "failed to parse %q as bool", resp)
	}
	return b, nil
}
