package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/teachstack/coursefs/pkg/browser"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/zone"
)

type BrowserController struct {
	browser *browser.Browser
}

func NewBrowserController(b *browser.Browser) *BrowserController {
	return &BrowserController{browser: b}
}

// zoneRequest is the zone addressing every browser call carries. GroupIDs
// are the caller's group memberships as established by the session layer.
type zoneRequest struct {
	ZoneKind   int     `json:"zone_kind" validate:"required"`
	Code       int64   `json:"code"`
	CourseCode int64   `json:"course_code"`
	UserCode   int64   `json:"user_code"`
	GroupIDs   []int64 `json:"group_ids"`
}

func (c *BrowserController) opCtx(ctx echo.Context, req zoneRequest) (*browser.OpCtx, error) {
	user, ok := ctx.Get("User").(cfsmodel.User)
	if !ok {
		return nil, echo.ErrUnauthorized
	}

	viewer := browser.PermissionContext{
		UserID:   user.ID,
		Role:     user.Role,
		GroupIDs: req.GroupIDs,
	}

	scope := zone.Scope{Code: req.Code, CourseCode: req.CourseCode, UserCode: req.UserCode}

	opCtx, err := c.browser.NewOpCtx(viewer, zone.Kind(req.ZoneKind), scope)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return opCtx, nil
}

func (c *BrowserController) ListChildren(ctx echo.Context) error {
	var req struct {
		zoneRequest
		Path string `json:"path" validate:"required"`
	}

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	nodes, err := c.browser.ListChildren(opCtx, req.Path)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, nodes)
}

func (c *BrowserController) CreateFolder(ctx echo.Context) error {
	var req struct {
		zoneRequest
		Path string `json:"path" validate:"required"`
		Name string `json:"name" validate:"required"`
	}

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	rel, err := c.browser.CreateFolder(opCtx, req.Path, req.Name)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{"path": rel})
}

func (c *BrowserController) CreateLink(ctx echo.Context) error {
	var req struct {
		zoneRequest
		Path string `json:"path" validate:"required"`
		Name string `json:"name" validate:"required"`
		URL  string `json:"url" validate:"required"`
	}

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	rel, err := c.browser.CreateLink(opCtx, req.Path, req.Name, req.URL)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{"path": rel})
}

// Upload takes the zone addressing as multipart form values alongside the
// file part itself.
func (c *BrowserController) Upload(ctx echo.Context) error {
	req, err := zoneRequestFromForm(ctx)
	if err != nil {
		return err
	}

	parent := ctx.FormValue("path")
	if parent == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no path given")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file part")
	}

	opCtx, err := c.opCtx(ctx, req)
	if err != nil {
		return err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	rel, err := c.browser.Upload(opCtx, parent, fileHeader.Filename, src)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{"path": rel})
}

func (c *BrowserController) Rename(ctx echo.Context) error {
	var req struct {
		zoneRequest
		Path    string `json:"path" validate:"required"`
		NewName string `json:"new_name" validate:"required"`
	}

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	rel, err := c.browser.Rename(opCtx, req.Path, req.NewName)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{"path": rel})
}

type pathRequest struct {
	zoneRequest
	Path string `json:"path" validate:"required"`
}

func (c *BrowserController) pathOp(ctx echo.Context, op func(*browser.OpCtx, string) error) error {
	var req pathRequest

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	if err := op(opCtx, req.Path); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *BrowserController) DeleteFile(ctx echo.Context) error {
	return c.pathOp(ctx, c.browser.DeleteFile)
}

func (c *BrowserController) DeleteFolder(ctx echo.Context) error {
	return c.pathOp(ctx, c.browser.DeleteFolder)
}

func (c *BrowserController) DeleteTree(ctx echo.Context) error {
	return c.pathOp(ctx, c.browser.DeleteTree)
}

func (c *BrowserController) Copy(ctx echo.Context) error {
	return c.pathOp(ctx, c.browser.Copy)
}

func (c *BrowserController) Paste(ctx echo.Context) error {
	var req pathRequest

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	summary, err := c.browser.Paste(opCtx, req.Path)
	if err != nil {
		return toHTTPError(err)
	}

	resp := echo.Map{
		"num_folders": summary.NumFolders,
		"num_files":   summary.NumFiles,
		"num_links":   summary.NumLinks,
		"total_bytes": summary.TotalBytes,
		"num_skipped": summary.NumSkipped,
	}

	if summary.FirstFailure != nil {
		resp["first_failure"] = summary.FirstFailure.Error()
	}

	return ctx.JSON(http.StatusOK, resp)
}

func (c *BrowserController) Expand(ctx echo.Context) error {
	return c.pathOp(ctx, c.browser.Expand)
}

func (c *BrowserController) Contract(ctx echo.Context) error {
	return c.pathOp(ctx, c.browser.Contract)
}

func (c *BrowserController) SetHidden(ctx echo.Context) error {
	var req struct {
		pathRequest
		Hidden bool `json:"hidden"`
	}

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	if err := c.browser.SetHidden(opCtx, req.Path, req.Hidden); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *BrowserController) SetPublicAndLicense(ctx echo.Context) error {
	var req struct {
		pathRequest
		Public  bool `json:"public"`
		License int  `json:"license"`
	}

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	err = c.browser.SetPublicAndLicense(opCtx, req.Path, req.Public, cfsmodel.License(req.License))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *BrowserController) RecordView(ctx echo.Context) error {
	var req pathRequest

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	if err := c.browser.RecordFileView(opCtx, req.Path, opCtx.Viewer.UserID); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusOK)
}

func (c *BrowserController) GetViewCounts(ctx echo.Context) error {
	var req pathRequest

	if err := bind(ctx, &req); err != nil {
		return err
	}

	opCtx, err := c.opCtx(ctx, req.zoneRequest)
	if err != nil {
		return err
	}

	counts, err := c.browser.GetViewCounts(opCtx, req.Path)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, counts)
}
