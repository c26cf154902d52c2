package browser

import (
	"os"

	"github.com/apex/log"
	"github.com/teachstack/coursefs/pkg/zone/zonepath"
)

// Rename gives the node at rel a new name within its folder. Renaming to
// the current name is a no-op. A folder rename rewrites every descendant's
// metadata path and the viewers' expanded state, and invalidates any
// clipboard entry pointing into this zone since its source path may no
// longer exist.
func (b *Browser) Rename(ctx *OpCtx, rel, newName string) (string, error) {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return "", err
	}

	if err := b.CanEditNode(ctx, rel); err != nil {
		return "", err
	}

	clean := SanitizeFilename(newName)
	if clean == "" {
		return "", opErr(KindInvalidName, newName)
	}

	if clean == zonepath.Base(rel) {
		return rel, nil
	}

	newRel := zonepath.Parent(rel) + "/" + clean

	if _, exists, err := b.statNode(ctx, newRel); err != nil {
		return "", err
	} else if exists {
		return "", opErr(KindNameCollision, clean)
	}

	info, exists, err := b.statNode(ctx, rel)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", opErr(KindInvalidPath, rel)
	}

	if err := os.Rename(ctx.Paths.Abs(rel), ctx.Paths.Abs(newRel)); err != nil {
		return "", ioErr(rel, err)
	}

	if err := b.stors.FileStor.RenameNode(ctx.Key, rel, newRel); err != nil {
		return "", ioErr(rel, err)
	}

	if info.IsDir() {
		if err := b.stors.FileStor.RenameDescendants(ctx.Key, rel, newRel); err != nil {
			return "", ioErr(rel, err)
		}

		if err := b.stors.ExpandedFolderStor.RenamePrefix(ctx.Key, rel, newRel); err != nil {
			log.WithError(err).Errorf("rewriting expanded state under %s", rel)
		}
	}

	b.invalidateClipboards(ctx)

	return newRel, nil
}
