package browser

import (
	"github.com/apex/log"

	"github.com/teachstack/coursefs/pkg/zone/zonepath"
)

// Expand marks the folder at rel open in the viewer's tree. Opening a deep
// folder implicitly opens every ancestor, since a folder can only be shown
// open when the chain above it is open too. Pure metadata; nothing on disk
// changes.
func (b *Browser) Expand(ctx *OpCtx, rel string) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	if err := b.stors.ExpandedFolderStor.RemoveExpired(b.expandedTTL); err != nil {
		return ioErr(rel, err)
	}

	return b.stors.ExpandedFolderStor.Expand(ctx.Viewer.UserID, ctx.Key, rel)
}

// Contract closes the folder at rel in the viewer's tree. Only the exact
// folder closes; its ancestors stay open.
func (b *Browser) Contract(ctx *OpCtx, rel string) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	return b.stors.ExpandedFolderStor.Contract(ctx.Viewer.UserID, ctx.Key, rel)
}

// markExpanded opens a folder for the viewer after a mutation put something
// new inside it. Failures only cost the open state, so they are logged and
// the mutation's result stands.
func (b *Browser) markExpanded(ctx *OpCtx, rel string) {
	if zonepath.Level(rel) == 0 {
		return
	}

	if err := b.stors.ExpandedFolderStor.Expand(ctx.Viewer.UserID, ctx.Key, rel); err != nil {
		log.WithError(err).Errorf("expanding %s", rel)
	}
}

// IsExpanded reports the viewer's open/closed state for the folder at rel.
func (b *Browser) IsExpanded(ctx *OpCtx, rel string) (bool, error) {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return false, err
	}

	return b.stors.ExpandedFolderStor.IsExpanded(ctx.Viewer.UserID, ctx.Key, rel)
}
