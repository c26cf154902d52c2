package browser

import (
	"github.com/apex/log"
	"github.com/teachstack/coursefs/pkg/quota"
	"github.com/teachstack/coursefs/pkg/zone"
)

// measureZone walks the zone tree and refreshes the stored usage snapshot.
// Snapshot persistence is advisory; a failed save never fails the caller's
// operation.
func (b *Browser) measureZone(ctx *OpCtx) (quota.Snapshot, error) {
	s, err := quota.Measure(ctx.Paths.Root)
	if err != nil {
		return quota.Snapshot{}, ioErr("", err)
	}

	if err := b.stors.BrowserUsageStor.SaveSnapshot(ctx.Key, s); err != nil {
		log.WithError(err).Errorf("saving usage snapshot for zone %d/%d", ctx.Key.Kind, ctx.Key.Code)
	}

	return s, nil
}

// checkQuota rejects when the prospective snapshot exceeds the zone limits,
// naming item as the offender.
func (b *Browser) checkQuota(ctx *OpCtx, s quota.Snapshot, item string) error {
	if reason := quota.ExceedsReason(s, ctx.Desc.Quota); reason != quota.ExceedNone {
		return quotaErr(reason, item)
	}

	return nil
}

// notifyNewFile fans out a new-file notification for zones whose watchers
// subscribe to additions. Files placed under a hidden ancestor stay silent.
func (b *Browser) notifyNewFile(ctx *OpCtx, fileID int64, rel string) {
	var eventKind string

	switch ctx.Desc.Family {
	case zone.FamilyDocCrs, zone.FamilyDocGrp, zone.FamilyDocHier:
		eventKind = EventNewDocumentFile
	case zone.FamilyShared, zone.FamilySharedHier:
		eventKind = EventNewSharedFile
	case zone.FamilyMarks:
		eventKind = EventNewMarksFile
	default:
		return
	}

	hidden, err := b.stors.FileStor.IsHiddenOrUnderHiddenAncestor(ctx.Key, rel)
	if err != nil || hidden {
		return
	}

	if err := b.notifier.FanOut(eventKind, fileID); err != nil {
		log.WithError(err).Errorf("fan-out %s for file %d", eventKind, fileID)
	}
}
