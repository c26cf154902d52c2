package browser

import (
	"net/url"
	"os"
	"strings"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
)

// CreateFolder creates an empty folder named name inside parentRel and
// returns the new node's zone-relative path.
func (b *Browser) CreateFolder(ctx *OpCtx, parentRel, name string) (string, error) {
	if err := b.validateZonePath(ctx, parentRel); err != nil {
		return "", err
	}

	if err := b.CanCreateInto(ctx, parentRel); err != nil {
		return "", err
	}

	clean := SanitizeFilename(name)
	if clean == "" {
		return "", opErr(KindInvalidName, name)
	}

	rel := parentRel + "/" + clean

	if _, exists, err := b.statNode(ctx, rel); err != nil {
		return "", err
	} else if exists {
		return "", opErr(KindNameCollision, clean)
	}

	s, err := b.measureZone(ctx)
	if err != nil {
		return "", err
	}

	s.AddFolder()
	if err := b.checkQuota(ctx, s, clean); err != nil {
		return "", err
	}

	if err := os.Mkdir(ctx.Paths.Abs(rel), 0755); err != nil {
		return "", ioErr(rel, err)
	}

	if _, err := b.stors.FileStor.EnsureRecord(ctx.Key, rel, cfsmodel.TypeFolder, ctx.Viewer.UserID); err != nil {
		return "", ioErr(rel, err)
	}

	b.invalidateClipboards(ctx)
	b.markExpanded(ctx, rel)

	return rel, nil
}

// CreateLink stores a URL as a small *.url file inside parentRel. The link
// is a regular file on disk; only its extension marks it as a link.
func (b *Browser) CreateLink(ctx *OpCtx, parentRel, name, rawURL string) (string, error) {
	if err := b.validateZonePath(ctx, parentRel); err != nil {
		return "", err
	}

	if err := b.CanCreateInto(ctx, parentRel); err != nil {
		return "", err
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", opErr(KindContentValidationFailed, name)
	}

	clean := SanitizeFilename(name)
	if clean == "" {
		return "", opErr(KindInvalidName, name)
	}

	if !strings.HasSuffix(strings.ToLower(clean), ".url") {
		clean += ".url"
	}

	if ctx.Desc.IsMarks() {
		return "", opErr(KindTypeNotAllowed, clean)
	}

	rel := parentRel + "/" + clean

	if _, exists, err := b.statNode(ctx, rel); err != nil {
		return "", err
	} else if exists {
		return "", opErr(KindNameCollision, clean)
	}

	content := []byte(parsed.String() + "\n")

	s, err := b.measureZone(ctx)
	if err != nil {
		return "", err
	}

	s.AddFile(int64(len(content)))
	if err := b.checkQuota(ctx, s, clean); err != nil {
		return "", err
	}

	if err := os.WriteFile(ctx.Paths.Abs(rel), content, 0644); err != nil {
		return "", ioErr(rel, err)
	}

	record, err := b.stors.FileStor.EnsureRecord(ctx.Key, rel, cfsmodel.TypeLink, ctx.Viewer.UserID)
	if err != nil {
		return "", ioErr(rel, err)
	}

	b.invalidateClipboards(ctx)
	b.markExpanded(ctx, parentRel)
	b.notifyNewFile(ctx, record.ID, rel)

	return rel, nil
}

// ReadLink returns the URL stored in a link file.
func (b *Browser) ReadLink(ctx *OpCtx, rel string) (string, error) {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return "", err
	}

	if !strings.HasSuffix(strings.ToLower(rel), ".url") {
		return "", opErr(KindTypeNotAllowed, rel)
	}

	data, err := os.ReadFile(ctx.Paths.Abs(rel))
	if err != nil {
		return "", ioErr(rel, err)
	}

	return strings.TrimSpace(string(data)), nil
}
