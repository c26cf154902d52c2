package webapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/teachstack/coursefs/pkg/browser"
)

func bind(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return err
	}

	return ctx.Validate(req)
}

// zoneRequestFromForm reads zone addressing from multipart form values,
// used by upload where the body carries the file itself.
func zoneRequestFromForm(ctx echo.Context) (zoneRequest, error) {
	var req zoneRequest

	kind, err := strconv.Atoi(ctx.FormValue("zone_kind"))
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "bad or missing zone_kind")
	}
	req.ZoneKind = kind

	req.Code = formInt64(ctx, "code")
	req.CourseCode = formInt64(ctx, "course_code")
	req.UserCode = formInt64(ctx, "user_code")

	return req, nil
}

func formInt64(ctx echo.Context, name string) int64 {
	v, _ := strconv.ParseInt(ctx.FormValue(name), 10, 64)
	return v
}

// toHTTPError maps operation rejections onto HTTP statuses, keeping the
// classification and offending item in the message.
func toHTTPError(err error) error {
	opError, ok := browser.AsOpError(err)
	if !ok {
		return err
	}

	status := http.StatusInternalServerError

	switch opError.Kind {
	case browser.KindInvalidPath, browser.KindInvalidName:
		status = http.StatusBadRequest
	case browser.KindNameCollision, browser.KindFolderNotEmpty:
		status = http.StatusConflict
	case browser.KindQuotaExceededLevels, browser.KindQuotaExceededFolders,
		browser.KindQuotaExceededFiles, browser.KindQuotaExceededBytes:
		status = http.StatusRequestEntityTooLarge
	case browser.KindPermissionDenied:
		status = http.StatusForbidden
	case browser.KindTypeNotAllowed:
		status = http.StatusUnsupportedMediaType
	case browser.KindContentValidationFailed:
		status = http.StatusUnprocessableEntity
	case browser.KindClipboardEmpty:
		status = http.StatusNotFound
	}

	return echo.NewHTTPError(status, opError.Error())
}
