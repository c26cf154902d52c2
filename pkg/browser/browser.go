// Package browser implements the hierarchical file browser: zone-scoped
// trees on disk mirrored by relational metadata, with per-user clipboard
// and expanded-folder state driving the tree UI.
package browser

import (
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/zone"
	"github.com/teachstack/coursefs/pkg/zone/zonepath"
)

const (
	DefaultClipboardTTL = 24 * time.Hour
	DefaultExpandedTTL  = 7 * 24 * time.Hour
)

type Opts struct {
	Stors        *stor.Stors
	Resolver     *zonepath.Resolver
	Mime         MimePolicy
	Notifier     stor.NotificationSink
	ClipboardTTL time.Duration
	ExpandedTTL  time.Duration
}

// Browser is the façade every zone operation goes through. It owns no
// state of its own; everything lives on disk and in the stores.
type Browser struct {
	stors        *stor.Stors
	resolver     *zonepath.Resolver
	mime         MimePolicy
	notifier     stor.NotificationSink
	clipboardTTL time.Duration
	expandedTTL  time.Duration
}

func New(opts Opts) *Browser {
	b := &Browser{
		stors:        opts.Stors,
		resolver:     opts.Resolver,
		mime:         opts.Mime,
		notifier:     opts.Notifier,
		clipboardTTL: opts.ClipboardTTL,
		expandedTTL:  opts.ExpandedTTL,
	}

	if b.mime == nil {
		b.mime = DefaultMimePolicy{}
	}

	if b.notifier == nil {
		b.notifier = LogSink{}
	}

	if b.clipboardTTL <= 0 {
		b.clipboardTTL = DefaultClipboardTTL
	}

	if b.expandedTTL <= 0 {
		b.expandedTTL = DefaultExpandedTTL
	}

	return b
}

// OpCtx carries everything one operation needs about the zone it acts on.
// Build one per request with NewOpCtx; resolution materializes the zone's
// directory chain as a side effect.
type OpCtx struct {
	Viewer PermissionContext
	Kind   zone.Kind
	Desc   zone.Descriptor
	Scope  zone.Scope
	Paths  zonepath.Paths
	Key    stor.ZoneKey
}

func (b *Browser) NewOpCtx(viewer PermissionContext, kind zone.Kind, scope zone.Scope) (*OpCtx, error) {
	d, ok := zone.Get(kind)
	if !ok {
		return nil, opErr(KindInvalidPath, "")
	}

	// Assignment folders materialize against the owning user's groups,
	// which we only know when the viewer is that user.
	var ownerGroups []int64
	if scope.UserCode == viewer.UserID {
		ownerGroups = viewer.GroupIDs
	}

	paths, err := b.resolver.Resolve(kind, scope, ownerGroups)
	if err != nil {
		return nil, ioErr("", err)
	}

	return &OpCtx{
		Viewer: viewer,
		Kind:   kind,
		Desc:   d,
		Scope:  scope,
		Paths:  paths,
		Key:    stor.KeyFor(d, scope),
	}, nil
}

// validateZonePath rejects anything that is not a well-formed zone-relative
// path rooted at this zone's root folder name.
func (b *Browser) validateZonePath(ctx *OpCtx, rel string) error {
	if !zonepath.ValidRelPath(rel) {
		return opErr(KindInvalidPath, rel)
	}

	first := rel
	if i := strings.Index(rel, "/"); i >= 0 {
		first = rel[:i]
	}

	if first != ctx.Desc.RootName {
		return opErr(KindInvalidPath, rel)
	}

	return nil
}

// Node is one listed child in a folder view.
type Node struct {
	Name     string
	Path     string
	Type     cfsmodel.NodeType
	Size     int64
	ModTime  time.Time
	Hidden   bool
	Dimmed   bool
	Expanded bool
	New      bool
}

func nodeTypeOf(name string, isDir bool) cfsmodel.NodeType {
	switch {
	case isDir:
		return cfsmodel.TypeFolder
	case strings.HasSuffix(strings.ToLower(name), ".url"):
		return cfsmodel.TypeLink
	default:
		return cfsmodel.TypeFile
	}
}

// ListChildren returns the direct children of the folder at rel, in name
// order. Hidden entries are filtered out in show mode and listed dimmed in
// admin mode; folders carry the viewer's expanded flag and files newer than
// the viewer's last visit are marked New. Listing the zone root records the
// visit.
func (b *Browser) ListChildren(ctx *OpCtx, rel string) ([]Node, error) {
	if err := b.validateZonePath(ctx, rel); err != nil {
		return nil, err
	}

	// Dimming propagates: everything under a hidden folder lists dimmed in
	// admin mode and stays invisible in show mode.
	underHidden, err := b.stors.FileStor.IsHiddenOrUnderHiddenAncestor(ctx.Key, rel)
	if err != nil {
		return nil, ioErr(rel, err)
	}
	if underHidden && !ctx.Desc.AdminMode {
		return nil, opErr(KindPermissionDenied, rel)
	}

	entries, err := os.ReadDir(ctx.Paths.Abs(rel))
	if err != nil {
		return nil, ioErr(rel, err)
	}

	hiddenPaths, err := b.stors.FileStor.HiddenPathsInZone(ctx.Key)
	if err != nil {
		return nil, ioErr(rel, err)
	}

	hidden := make(map[string]bool, len(hiddenPaths))
	for _, p := range hiddenPaths {
		hidden[p] = true
	}

	lastVisit, visited, err := b.stors.BrowserUsageStor.GetLastAccess(ctx.Viewer.UserID, ctx.Key)
	if err != nil {
		return nil, ioErr(rel, err)
	}

	var nodes []Node
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		childPath := rel + "/" + entry.Name()
		childHidden := hidden[childPath]
		if childHidden && !ctx.Desc.AdminMode {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		node := Node{
			Name:    entry.Name(),
			Path:    childPath,
			Type:    nodeTypeOf(entry.Name(), entry.IsDir()),
			ModTime: info.ModTime(),
			Hidden:  childHidden,
			Dimmed:  childHidden || underHidden,
		}

		if node.Type == cfsmodel.TypeFolder {
			expanded, err := b.stors.ExpandedFolderStor.IsExpanded(ctx.Viewer.UserID, ctx.Key, childPath)
			if err != nil {
				return nil, ioErr(childPath, err)
			}
			node.Expanded = expanded
		} else {
			node.Size = info.Size()
			node.New = visited && info.ModTime().After(lastVisit)
		}

		nodes = append(nodes, node)
	}

	if zonepath.Level(rel) == 0 {
		if err := b.stors.BrowserUsageStor.TouchLastAccess(ctx.Viewer.UserID, ctx.Key, time.Now()); err != nil {
			log.WithError(err).Errorf("recording zone visit for user %d", ctx.Viewer.UserID)
		}
	}

	return nodes, nil
}

// statNode Lstats rel inside the zone. The missing case is reported
// distinctly so callers can branch on existence without error juggling.
func (b *Browser) statNode(ctx *OpCtx, rel string) (os.FileInfo, bool, error) {
	info, err := os.Lstat(ctx.Paths.Abs(rel))
	switch {
	case err == nil:
		return info, true, nil
	case os.IsNotExist(err):
		return nil, false, nil
	default:
		return nil, false, ioErr(rel, err)
	}
}
