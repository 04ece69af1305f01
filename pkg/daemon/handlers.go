package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xrdcal/geomodel/pkg/config"
	"github.com/xrdcal/geomodel/pkg/model"
	"github.com/xrdcal/geomodel/pkg/version"
)

func abort(c *gin.Context, code int, err error) {
	c.IndentedJSON(code, err.Error())
	_ = c.AbortWithError(code, err)
}

func fieldErrorCode(err error) int {
	if errors.Is(err, model.ErrUnknownField) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (d *Daemon) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(d.conf)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (d *Daemon) getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func (d *Daemon) getGeometry(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, d.store.status())
}

func (d *Daemon) setGeometry(c *gin.Context) {
	var snap model.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	st, _ := d.store.update(func(g *model.Geometry) error {
		g.SetFrom(snap)
		return nil
	})

	logrus.WithField("valid", st.Valid).Info("replaced geometry")

	c.IndentedJSON(http.StatusCreated, st)
}

func (d *Daemon) clearGeometry(c *gin.Context) {
	st, _ := d.store.update(func(g *model.Geometry) error {
		g.Clear()
		return nil
	})

	logrus.Info("cleared geometry")

	c.IndentedJSON(http.StatusOK, st)
}

func (d *Daemon) getValid(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, d.store.status().Valid)
}

func (d *Daemon) getField(c *gin.Context) {
	name := c.Param("field")

	var v *float64
	err := d.store.view(func(g *model.Geometry) error {
		s, err := g.Field(name)
		if err != nil {
			return err
		}
		v = s.Ptr()
		return nil
	})
	if err != nil {
		abort(c, fieldErrorCode(err), err)
		return
	}

	c.IndentedJSON(http.StatusOK, v)
}

func (d *Daemon) setField(c *gin.Context) {
	name := c.Param("field")
	if err := model.CheckField(name); err != nil {
		abort(c, http.StatusNotFound, err)
		return
	}

	// The body is a JSON number, or null to unset. Not bound through gin:
	// its validator cannot handle a nil *float64.
	b, err := c.GetRawData()
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("value must be a number or null: %w", err))
		return
	}

	_, err = d.store.update(func(g *model.Geometry) error {
		s, err := g.Field(name)
		if err != nil {
			return err
		}
		s.Assign(v)
		return nil
	})
	if err != nil {
		abort(c, fieldErrorCode(err), err)
		return
	}

	var msg string
	if v == nil {
		msg = fmt.Sprintf("unset %s", name)
	} else {
		msg = fmt.Sprintf("set %s to %g", name, *v)
	}
	logrus.Info(msg)

	c.IndentedJSON(http.StatusCreated, msg)
}

func (d *Daemon) unsetField(c *gin.Context) {
	name := c.Param("field")

	_, err := d.store.update(func(g *model.Geometry) error {
		s, err := g.Field(name)
		if err != nil {
			return err
		}
		s.Unset()
		return nil
	})
	if err != nil {
		abort(c, fieldErrorCode(err), err)
		return
	}

	msg := fmt.Sprintf("unset %s", name)
	logrus.Info(msg)

	c.IndentedJSON(http.StatusOK, msg)
}
