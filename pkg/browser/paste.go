package browser

import (
	"io"
	"os"

	"github.com/apex/log"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/quota"
	"github.com/teachstack/coursefs/pkg/zone/zonepath"
)

// OpSummary reports what a recursive paste actually did. A paste that hits
// a quota or collision on one item skips that item (and its subtree) but
// keeps going with its siblings, so the summary can show partial success
// alongside the first rejection.
type OpSummary struct {
	NumFolders   int
	NumFiles     int
	NumLinks     int
	TotalBytes   int64
	NumSkipped   int
	FirstFailure *OpError
	FirstFileID  int64
}

func (s *OpSummary) fail(err *OpError) {
	s.NumSkipped++
	if s.FirstFailure == nil {
		s.FirstFailure = err
	}
}

// CheckIfCanPasteIn reports whether the viewer's clipboard could be pasted
// into the folder at destRel: the clipboard must hold something, the viewer
// must be allowed to create there, and a folder can never be pasted into
// itself or its own subtree.
func (b *Browser) CheckIfCanPasteIn(ctx *OpCtx, destRel string) error {
	if err := b.validateZonePath(ctx, destRel); err != nil {
		return err
	}

	if err := b.CanCreateInto(ctx, destRel); err != nil {
		return err
	}

	entry, srcCtx, err := b.clipboardSource(ctx.Viewer)
	if err != nil {
		return err
	}

	if srcCtx.Key == ctx.Key {
		if destRel == entry.Path || zonepath.IsAncestorOf(entry.Path, destRel) {
			return opErr(KindInvalidPath, destRel)
		}
	}

	return nil
}

// Paste copies the clipboard source into the folder at destRel. Folder
// sources are copied recursively; each copied node gets a fresh metadata
// record published by the viewer, so hidden/public flags never travel with
// a paste. The clipboard is left intact so the same source can be pasted
// again elsewhere.
func (b *Browser) Paste(ctx *OpCtx, destRel string) (*OpSummary, error) {
	if err := b.CheckIfCanPasteIn(ctx, destRel); err != nil {
		return nil, err
	}

	entry, srcCtx, err := b.clipboardSource(ctx.Viewer)
	if err != nil {
		return nil, err
	}

	if _, exists, err := b.statNode(srcCtx, entry.Path); err != nil {
		return nil, err
	} else if !exists {
		_ = b.stors.ClipboardStor.Clear(ctx.Viewer.UserID)
		return nil, opErr(KindClipboardEmpty, entry.Path)
	}

	s, err := b.measureZone(ctx)
	if err != nil {
		return nil, err
	}

	sum := &OpSummary{}
	b.pasteNode(ctx, srcCtx, entry.Path, destRel, 0, &s, sum)

	if err := b.stors.BrowserUsageStor.SaveSnapshot(ctx.Key, s); err != nil {
		log.WithError(err).Errorf("saving usage snapshot for zone %d/%d", ctx.Key.Kind, ctx.Key.Code)
	}

	if sum.FirstFileID != 0 {
		b.notifyNewFile(ctx, sum.FirstFileID, destRel)
	}

	return sum, nil
}

// pasteNode copies the node at srcRel (in the source zone) to a same-named
// child of destRel (in the destination zone). Rejections are recorded on
// the summary and stop only the offending subtree.
func (b *Browser) pasteNode(ctx, srcCtx *OpCtx, srcRel, destRel string, level int, s *quota.Snapshot, sum *OpSummary) {
	name := zonepath.Base(srcRel)
	destChild := destRel + "/" + name

	info, exists, err := b.statNode(srcCtx, srcRel)
	if err != nil || !exists {
		sum.fail(opErr(KindInvalidPath, name))
		return
	}

	// The global level cap binds every node type, files included.
	if zonepath.Level(destChild) > quota.MaxTreeLevels {
		sum.fail(opErr(KindQuotaExceededLevels, name))
		return
	}

	if info.IsDir() {
		b.pasteFolder(ctx, srcCtx, srcRel, destChild, level, s, sum)
		return
	}

	b.pasteFile(ctx, srcCtx, srcRel, destChild, info.Size(), s, sum)
}

// pasteFolder merges into an existing destination folder rather than
// rejecting it; only files collide by name. The folder count leaves out the
// pasted root so it reflects folders placed inside the destination.
func (b *Browser) pasteFolder(ctx, srcCtx *OpCtx, srcRel, destChild string, level int, s *quota.Snapshot, sum *OpSummary) {
	name := zonepath.Base(destChild)

	info, exists, err := b.statNode(ctx, destChild)
	if err != nil {
		sum.fail(ioErr(name, err))
		return
	}

	if exists && !info.IsDir() {
		sum.fail(opErr(KindNameCollision, name))
		return
	}

	if !exists {
		s.AddFolder()
		if err := b.checkQuota(ctx, *s, name); err != nil {
			s.RemoveFolder()
			opError, _ := AsOpError(err)
			sum.fail(opError)
			return
		}

		if err := os.Mkdir(ctx.Paths.Abs(destChild), 0755); err != nil {
			s.RemoveFolder()
			sum.fail(ioErr(name, err))
			return
		}

		if _, err := b.stors.FileStor.EnsureRecord(ctx.Key, destChild, cfsmodel.TypeFolder, ctx.Viewer.UserID); err != nil {
			sum.fail(ioErr(name, err))
			return
		}
	}

	entries, err := os.ReadDir(srcCtx.Paths.Abs(srcRel))
	if err != nil {
		sum.fail(ioErr(name, err))
		return
	}

	for _, entry := range entries {
		b.pasteNode(ctx, srcCtx, srcRel+"/"+entry.Name(), destChild, level+1, s, sum)
	}

	if level != 0 {
		sum.NumFolders++
	}
}

func (b *Browser) pasteFile(ctx, srcCtx *OpCtx, srcRel, destChild string, size int64, s *quota.Snapshot, sum *OpSummary) {
	name := zonepath.Base(destChild)
	isLink := nodeTypeOf(name, false) == cfsmodel.TypeLink

	if _, exists, err := b.statNode(ctx, destChild); err != nil {
		sum.fail(ioErr(name, err))
		return
	} else if exists {
		sum.fail(opErr(KindNameCollision, name))
		return
	}

	if ctx.Desc.IsMarks() {
		if isLink || !IsMarksFilename(name) {
			sum.fail(opErr(KindTypeNotAllowed, name))
			return
		}
	}

	s.AddFile(size)
	if err := b.checkQuota(ctx, *s, name); err != nil {
		s.RemoveFile(size)
		opError, _ := AsOpError(err)
		sum.fail(opError)
		return
	}

	if err := copyFileContents(srcCtx.Paths.Abs(srcRel), ctx.Paths.Abs(destChild)); err != nil {
		s.RemoveFile(size)
		sum.fail(ioErr(name, err))
		return
	}

	ftype := cfsmodel.TypeFile
	if isLink {
		ftype = cfsmodel.TypeLink
	}

	record, err := b.stors.FileStor.EnsureRecord(ctx.Key, destChild, ftype, ctx.Viewer.UserID)
	if err != nil {
		sum.fail(ioErr(name, err))
		return
	}

	if isLink {
		sum.NumLinks++
	} else {
		sum.NumFiles++
	}
	sum.TotalBytes += size

	if sum.FirstFileID == 0 {
		sum.FirstFileID = record.ID
	}
}

// copyFileContents stages the copy under a temporary name and renames it
// into place, so a failed copy leaves nothing at dst.
func copyFileContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	staged := dst + ".tmp"

	out, err := os.OpenFile(staged, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(staged)
		return err
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(staged)
		return err
	}

	return os.Rename(staged, dst)
}
