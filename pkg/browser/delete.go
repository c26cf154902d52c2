package browser

import (
	"errors"
	"os"
	"syscall"

	"github.com/apex/log"
)

// DeleteFile removes a single regular file or link.
func (b *Browser) DeleteFile(ctx *OpCtx, rel string) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	if err := b.CanEditNode(ctx, rel); err != nil {
		return err
	}

	info, exists, err := b.statNode(ctx, rel)
	if err != nil {
		return err
	}
	if !exists {
		return opErr(KindInvalidPath, rel)
	}
	if info.IsDir() {
		return opErr(KindTypeNotAllowed, rel)
	}

	if err := os.Remove(ctx.Paths.Abs(rel)); err != nil {
		return ioErr(rel, err)
	}

	b.dropNodeState(ctx, rel, false)

	return nil
}

// DeleteFolder removes an empty folder. A non-empty folder is refused; use
// DeleteTree to remove a subtree wholesale.
func (b *Browser) DeleteFolder(ctx *OpCtx, rel string) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	if err := b.CanEditNode(ctx, rel); err != nil {
		return err
	}

	info, exists, err := b.statNode(ctx, rel)
	if err != nil {
		return err
	}
	if !exists {
		return opErr(KindInvalidPath, rel)
	}
	if !info.IsDir() {
		return opErr(KindTypeNotAllowed, rel)
	}

	if err := os.Remove(ctx.Paths.Abs(rel)); err != nil {
		if errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, syscall.EEXIST) {
			return opErr(KindFolderNotEmpty, rel)
		}
		return ioErr(rel, err)
	}

	b.dropNodeState(ctx, rel, true)

	return nil
}

// DeleteTree removes the folder at rel and everything below it.
func (b *Browser) DeleteTree(ctx *OpCtx, rel string) error {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return err
	}

	if err := b.CanEditNode(ctx, rel); err != nil {
		return err
	}

	info, exists, err := b.statNode(ctx, rel)
	if err != nil {
		return err
	}
	if !exists {
		return opErr(KindInvalidPath, rel)
	}
	if !info.IsDir() {
		return opErr(KindTypeNotAllowed, rel)
	}

	if err := os.RemoveAll(ctx.Paths.Abs(rel)); err != nil {
		return ioErr(rel, err)
	}

	if err := b.stors.FileStor.DeleteDescendants(ctx.Key, rel); err != nil {
		return ioErr(rel, err)
	}

	b.dropNodeState(ctx, rel, true)

	return nil
}

// dropNodeState clears the metadata that referenced a removed node: its
// file record, expanded state when it was a folder, and any clipboard entry
// into this zone (whose source may have just disappeared).
func (b *Browser) dropNodeState(ctx *OpCtx, rel string, wasFolder bool) {
	if err := b.stors.FileStor.DeleteNode(ctx.Key, rel); err != nil {
		log.WithError(err).Errorf("deleting file record %s", rel)
	}

	if wasFolder {
		if err := b.stors.ExpandedFolderStor.DeletePrefix(ctx.Key, rel); err != nil {
			log.WithError(err).Errorf("clearing expanded state under %s", rel)
		}
	}

	b.invalidateClipboards(ctx)
}
