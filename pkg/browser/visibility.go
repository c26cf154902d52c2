package browser

import (
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
)

// SetHidden flags the node at rel hidden or visible. Hiding is metadata
// only: the node stays on disk, show-mode listings filter it out, and
// everything below a hidden folder inherits the effect without its own
// records changing.
func (b *Browser) SetHidden(ctx *OpCtx, rel string, hidden bool) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	if err := b.CanEditNode(ctx, rel); err != nil {
		return err
	}

	if _, exists, err := b.statNode(ctx, rel); err != nil {
		return err
	} else if !exists {
		return opErr(KindInvalidPath, rel)
	}

	return b.stors.FileStor.SetHidden(ctx.Key, rel, hidden)
}

// SetPublicAndLicense records a file's public flag and license choice, and
// stamps the acting user as its publisher.
func (b *Browser) SetPublicAndLicense(ctx *OpCtx, rel string, public bool, license cfsmodel.License) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	if err := b.CanEditNode(ctx, rel); err != nil {
		return err
	}

	if _, exists, err := b.statNode(ctx, rel); err != nil {
		return err
	} else if !exists {
		return opErr(KindInvalidPath, rel)
	}

	return b.stors.FileStor.SetPublicAndLicense(ctx.Key, rel, ctx.Viewer.UserID, public, license)
}

// RecordFileView tallies one download/view of the file at rel by the
// viewer. Anonymous visitors tally under user code zero.
func (b *Browser) RecordFileView(ctx *OpCtx, rel string, viewerID int64) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	record, err := b.stors.FileStor.GetByPath(ctx.Key, rel)
	if err != nil {
		return ioErr(rel, err)
	}
	if record == nil {
		return opErr(KindInvalidPath, rel)
	}

	return b.stors.FileStor.RecordView(record.ID, viewerID)
}

// ViewCounts aggregates the view ledger for one file.
type ViewCounts struct {
	LoggedViews   int `json:"logged_views"`
	AnonViews     int `json:"anon_views"`
	DistinctUsers int `json:"distinct_users"`
}

func (b *Browser) GetViewCounts(ctx *OpCtx, rel string) (*ViewCounts, error) {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return nil, err
	}

	record, err := b.stors.FileStor.GetByPath(ctx.Key, rel)
	if err != nil {
		return nil, ioErr(rel, err)
	}
	if record == nil {
		return nil, opErr(KindInvalidPath, rel)
	}

	counts := &ViewCounts{}

	if counts.LoggedViews, err = b.stors.FileStor.CountLoggedViews(record.ID); err != nil {
		return nil, ioErr(rel, err)
	}
	if counts.AnonViews, err = b.stors.FileStor.CountAnonymousViews(record.ID); err != nil {
		return nil, ioErr(rel, err)
	}
	if counts.DistinctUsers, err = b.stors.FileStor.CountDistinctLoggedViewers(record.ID); err != nil {
		return nil, ioErr(rel, err)
	}

	return counts, nil
}
