package browser

import (
	"time"

	"github.com/apex/log"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/zone"
)

// Copy places the node at rel in the viewer's clipboard. Each user holds
// exactly one clipboard slot, so copying replaces whatever was there.
// Expired entries platform-wide are swept opportunistically first.
func (b *Browser) Copy(ctx *OpCtx, rel string) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	info, exists, err := b.statNode(ctx, rel)
	if err != nil {
		return err
	}
	if !exists {
		return opErr(KindInvalidPath, rel)
	}

	if err := b.stors.ClipboardStor.SweepExpired(b.clipboardTTL); err != nil {
		return ioErr(rel, err)
	}

	entry := &cfsmodel.ClipboardEntry{
		UserID:     ctx.Viewer.UserID,
		ZoneKind:   int(ctx.Key.Kind),
		ZoneCode:   ctx.Key.Code,
		CourseCode: ctx.Scope.CourseCode,
		OwnerCode:  ctx.Key.Owner,
		FileType:   nodeTypeOf(rel, info.IsDir()),
		Path:       rel,
		CopiedAt:   time.Now(),
	}

	return b.stors.ClipboardStor.Set(entry)
}

// ClearClipboard empties the viewer's clipboard slot.
func (b *Browser) ClearClipboard(userID int64) error {
	return b.stors.ClipboardStor.Clear(userID)
}

// invalidateClipboards drops every clipboard entry pointing into this zone
// after a structural mutation. Losing a clipboard entry only costs the user
// a re-copy, so failures are logged and the mutation's result stands.
func (b *Browser) invalidateClipboards(ctx *OpCtx) {
	if err := b.stors.ClipboardStor.InvalidateForZone(ctx.Key); err != nil {
		log.WithError(err).Errorf("invalidating clipboards for zone %d/%d", ctx.Key.Kind, ctx.Key.Code)
	}
}

// clipboardSource loads the viewer's clipboard entry and resolves the zone
// it points into. Expired and missing entries both read as empty.
func (b *Browser) clipboardSource(viewer PermissionContext) (*cfsmodel.ClipboardEntry, *OpCtx, error) {
	entry, err := b.stors.ClipboardStor.GetForUser(viewer.UserID)
	if err != nil {
		return nil, nil, ioErr("", err)
	}
	if entry == nil {
		return nil, nil, opErr(KindClipboardEmpty, "")
	}
	if time.Since(entry.CopiedAt) > b.clipboardTTL {
		_ = b.stors.ClipboardStor.Clear(viewer.UserID)
		return nil, nil, opErr(KindClipboardEmpty, "")
	}

	srcScope := zone.Scope{Code: entry.ZoneCode, CourseCode: entry.CourseCode, UserCode: entry.OwnerCode}

	srcCtx, err := b.NewOpCtx(viewer, zone.Kind(entry.ZoneKind), srcScope)
	if err != nil {
		return nil, nil, err
	}

	return entry, srcCtx, nil
}
