package browser

import (
	"io"
	"os"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
)

// Upload stores an incoming file two-phase: the content is staged next to
// its final location, validated and quota-checked there, and only then
// renamed into place. A rejected upload leaves nothing behind.
func (b *Browser) Upload(ctx *OpCtx, parentRel, name string, src io.Reader) (string, error) {
	if err := b.validateZonePath(ctx, parentRel); err != nil {
		return "", err
	}

	if err := b.CanCreateInto(ctx, parentRel); err != nil {
		return "", err
	}

	clean := SanitizeUploadFilename(name)
	if clean == "" {
		return "", opErr(KindInvalidName, name)
	}

	if ctx.Desc.IsMarks() && !IsMarksFilename(clean) {
		return "", opErr(KindTypeNotAllowed, clean)
	}

	if !b.mime.ExtensionAllowed(clean) {
		return "", opErr(KindTypeNotAllowed, clean)
	}

	rel := parentRel + "/" + clean

	if _, exists, err := b.statNode(ctx, rel); err != nil {
		return "", err
	} else if exists {
		return "", opErr(KindNameCollision, clean)
	}

	abs := ctx.Paths.Abs(rel)
	staged := abs + ".tmp"

	if err := b.stageUpload(staged, src); err != nil {
		return "", ioErr(rel, err)
	}

	if err := b.validateStaged(ctx, staged, clean); err != nil {
		_ = os.Remove(staged)
		return "", err
	}

	// The staged file already sits inside the zone tree, so the walk
	// below accounts for its size and file count.
	s, err := b.measureZone(ctx)
	if err != nil {
		_ = os.Remove(staged)
		return "", err
	}

	if err := b.checkQuota(ctx, s, clean); err != nil {
		_ = os.Remove(staged)
		return "", err
	}

	if err := os.Rename(staged, abs); err != nil {
		_ = os.Remove(staged)
		return "", ioErr(rel, err)
	}

	record, err := b.stors.FileStor.EnsureRecord(ctx.Key, rel, cfsmodel.TypeFile, ctx.Viewer.UserID)
	if err != nil {
		return "", ioErr(rel, err)
	}

	b.invalidateClipboards(ctx)
	b.markExpanded(ctx, parentRel)
	b.notifyNewFile(ctx, record.ID, rel)

	return rel, nil
}

func (b *Browser) stageUpload(staged string, src io.Reader) error {
	f, err := os.OpenFile(staged, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(staged)
		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(staged)
		return err
	}

	return nil
}

// validateStaged sniffs the staged content and applies the zone's content
// rules. Marks zones additionally require a gradeable HTML table.
func (b *Browser) validateStaged(ctx *OpCtx, staged, name string) error {
	mimeType, err := DetectMimeType(staged)
	if err != nil {
		return ioErr(name, err)
	}

	if ctx.Desc.IsMarks() {
		if !marksMimeTypeAllowed(mimeType) {
			return opErr(KindTypeNotAllowed, name)
		}

		ok, err := ValidateMarksContent(staged)
		if err != nil {
			return ioErr(name, err)
		}
		if !ok {
			return opErr(KindContentValidationFailed, name)
		}

		return nil
	}

	if !b.mime.MimeTypeAllowed(mimeType) {
		return opErr(KindTypeNotAllowed, name)
	}

	return nil
}
