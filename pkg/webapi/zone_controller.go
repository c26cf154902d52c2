package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/zone"
)

type ZoneController struct {
	fileStor stor.FileStor
}

func NewZoneController(fileStor stor.FileStor) *ZoneController {
	return &ZoneController{fileStor: fileStor}
}

type zoneKindResp struct {
	Kind       int    `json:"kind"`
	RootName   string `json:"root_name"`
	Editable   bool   `json:"editable"`
	AdminMode  bool   `json:"admin_mode"`
	MaxBytes   int64  `json:"max_bytes"`
	MaxFiles   int    `json:"max_files"`
	MaxFolders int    `json:"max_folders"`
}

// GetZoneKinds lists every registered zone kind with its limits.
func (c *ZoneController) GetZoneKinds(ctx echo.Context) error {
	var resp []zoneKindResp

	for _, kind := range zone.Kinds() {
		d, _ := zone.Get(kind)
		resp = append(resp, zoneKindResp{
			Kind:       int(d.Kind),
			RootName:   d.RootName,
			Editable:   d.Editable,
			AdminMode:  d.AdminMode,
			MaxBytes:   d.Quota.MaxBytes,
			MaxFiles:   d.Quota.MaxFiles,
			MaxFolders: d.Quota.MaxFolders,
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

// GetKnownZones lists every zone instance that has at least one metadata
// record.
func (c *ZoneController) GetKnownZones(ctx echo.Context) error {
	keys, err := c.fileStor.ListZones()
	if err != nil {
		return err
	}

	type zoneResp struct {
		Kind  int   `json:"kind"`
		Code  int64 `json:"code"`
		Owner int64 `json:"owner"`
	}

	resp := make([]zoneResp, 0, len(keys))
	for _, key := range keys {
		resp = append(resp, zoneResp{Kind: int(key.Kind), Code: key.Code, Owner: key.Owner})
	}

	return ctx.JSON(http.StatusOK, resp)
}
