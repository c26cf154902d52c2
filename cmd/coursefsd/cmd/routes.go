package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/teachstack/coursefs/pkg/browser"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/webapi"
)

type RouteOpts struct {
	browser *browser.Browser
	stors   *stor.Stors
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	g := e.Group("/api")

	browserController := webapi.NewBrowserController(opts.browser)

	g.POST("/browser/list", browserController.ListChildren)
	g.POST("/browser/folders", browserController.CreateFolder)
	g.POST("/browser/links", browserController.CreateLink)
	g.POST("/browser/upload", browserController.Upload)
	g.POST("/browser/rename", browserController.Rename)
	g.POST("/browser/delete-file", browserController.DeleteFile)
	g.POST("/browser/delete-folder", browserController.DeleteFolder)
	g.POST("/browser/delete-tree", browserController.DeleteTree)
	g.POST("/browser/copy", browserController.Copy)
	g.POST("/browser/paste", browserController.Paste)
	g.POST("/browser/expand", browserController.Expand)
	g.POST("/browser/contract", browserController.Contract)
	g.POST("/browser/hidden", browserController.SetHidden)
	g.POST("/browser/license", browserController.SetPublicAndLicense)
	g.POST("/browser/views", browserController.RecordView)
	g.POST("/browser/views/counts", browserController.GetViewCounts)

	zoneController := webapi.NewZoneController(opts.stors.FileStor)
	g.GET("/zones/kinds", zoneController.GetZoneKinds)
	g.GET("/zones", zoneController.GetKnownZones)

	usageController := webapi.NewUsageController(opts.stors.BrowserUsageStor)
	g.POST("/zones/usage", usageController.GetZoneUsage)
}
