package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/zone"
)

type UsageController struct {
	usageStor stor.BrowserUsageStor
}

func NewUsageController(usageStor stor.BrowserUsageStor) *UsageController {
	return &UsageController{usageStor: usageStor}
}

// GetZoneUsage returns the last stored quota snapshot for a zone instance,
// alongside the zone kind's limits.
func (c *UsageController) GetZoneUsage(ctx echo.Context) error {
	var req struct {
		ZoneKind int   `json:"zone_kind" validate:"required"`
		Code     int64 `json:"code"`
		Owner    int64 `json:"owner"`
	}

	if err := bind(ctx, &req); err != nil {
		return err
	}

	d, ok := zone.Get(zone.Kind(req.ZoneKind))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown zone kind")
	}

	key := stor.ZoneKey{Kind: d.Storage, Code: req.Code, Owner: req.Owner}

	size, err := c.usageStor.GetSnapshot(key)
	if err != nil {
		return err
	}
	if size == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no snapshot for zone")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"num_levels":  size.NumLevels,
		"num_folders": size.NumFolders,
		"num_files":   size.NumFiles,
		"total_bytes": size.TotalBytes,
		"max_bytes":   d.Quota.MaxBytes,
		"max_files":   d.Quota.MaxFiles,
		"max_folders": d.Quota.MaxFolders,
	})
}
