package zonepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/teachstack/coursefs/pkg/zone"
)

// Paths is the resolved on-disk location of a zone instance. Base is the
// directory that contains the zone root folder; Root is the zone root folder
// itself (Base/<RootName>).
type Paths struct {
	Base string
	Root string
}

// Abs maps a zone-relative path (which always starts with the zone root
// folder name) to its absolute location.
func (p Paths) Abs(rel string) string {
	return filepath.Join(p.Base, filepath.FromSlash(rel))
}

// AssignmentFolderLister supplies the submission folder names to
// materialize inside an assignments zone: active, non-hidden assignments
// with a non-empty folder name whose group restriction (if any) includes
// the zone's owning user.
type AssignmentFolderLister interface {
	ActiveAssignmentFolders(courseID int64, ownerGroupIDs []int64) ([]string, error)
}

// Resolver turns (kind, scope) into absolute paths, creating ancestor
// directories as it goes. Resolution is deliberately side-effecting: a zone
// exists on disk from the moment it is first resolved.
type Resolver struct {
	root        string
	assignments AssignmentFolderLister
}

func NewResolver(root string, assignments AssignmentFolderLister) *Resolver {
	return &Resolver{root: root, assignments: assignments}
}

// shard bounds directory fan-out: zone instances nest under <code mod 100>
// so no single directory accumulates every course or user on the platform.
func shard(code int64) string {
	return fmt.Sprintf("%02d", code%100)
}

// Resolve computes the zone instance's paths and materializes the directory
// chain. For assignment zones it also lazily creates one subfolder per
// submittable assignment for the owning user.
func (r *Resolver) Resolve(kind zone.Kind, scope zone.Scope, ownerGroupIDs []int64) (Paths, error) {
	d, ok := zone.Get(kind)
	if !ok {
		return Paths{}, errors.Errorf("unknown zone kind %d", kind)
	}

	base, err := r.basePath(d, scope)
	if err != nil {
		return Paths{}, err
	}

	paths := Paths{Base: base, Root: filepath.Join(base, d.RootName)}

	if err := os.MkdirAll(paths.Root, 0755); err != nil {
		return Paths{}, errors.Wrapf(err, "creating zone root %s", paths.Root)
	}

	if d.Family == zone.FamilyAssignments && r.assignments != nil {
		if err := r.materializeAssignmentFolders(paths, scope, ownerGroupIDs); err != nil {
			return Paths{}, err
		}
	}

	return paths, nil
}

func (r *Resolver) basePath(d zone.Descriptor, scope zone.Scope) (string, error) {
	code := scope.Code

	switch d.Area {
	case zone.AreaIns:
		return filepath.Join(r.root, "ins", shard(code), fmt.Sprint(code)), nil
	case zone.AreaCtr:
		return filepath.Join(r.root, "ctr", shard(code), fmt.Sprint(code)), nil
	case zone.AreaDeg:
		return filepath.Join(r.root, "deg", shard(code), fmt.Sprint(code)), nil
	case zone.AreaCrs:
		return filepath.Join(r.root, "crs", shard(code), fmt.Sprint(code)), nil
	case zone.AreaGrp:
		if scope.CourseCode == 0 {
			return "", errors.Errorf("group zone %d requires a course code", d.Kind)
		}
		return filepath.Join(r.root, "crs", shard(scope.CourseCode), fmt.Sprint(scope.CourseCode),
			"grp", fmt.Sprint(code)), nil
	case zone.AreaPrj:
		return filepath.Join(r.root, "prj", shard(code), fmt.Sprint(code)), nil
	case zone.AreaCrsUsr:
		if scope.UserCode == 0 {
			return "", errors.Errorf("per-user zone %d requires a user code", d.Kind)
		}
		return filepath.Join(r.root, "crs", shard(code), fmt.Sprint(code),
			"usr", shard(scope.UserCode), fmt.Sprint(scope.UserCode)), nil
	case zone.AreaUsr:
		if scope.UserCode == 0 {
			return "", errors.Errorf("per-user zone %d requires a user code", d.Kind)
		}
		return filepath.Join(r.root, "usr", shard(scope.UserCode), fmt.Sprint(scope.UserCode)), nil
	default:
		return "", errors.Errorf("zone kind %d has no filesystem area", d.Kind)
	}
}

func (r *Resolver) materializeAssignmentFolders(paths Paths, scope zone.Scope, ownerGroupIDs []int64) error {
	folders, err := r.assignments.ActiveAssignmentFolders(scope.Code, ownerGroupIDs)
	if err != nil {
		return errors.Wrap(err, "listing assignment folders")
	}

	for _, folder := range folders {
		if folder == "" || !ValidRelPath(folder) || strings.Contains(folder, "/") {
			continue
		}
		if err := os.MkdirAll(filepath.Join(paths.Root, folder), 0755); err != nil {
			return errors.Wrapf(err, "creating assignment folder %s", folder)
		}
	}

	return nil
}

// ValidRelPath reports whether p is a safe zone-relative path: forward
// slashes only, no empty segments, and no ".." anywhere. This is enforced
// at every boundary before a path gets near the filesystem.
func ValidRelPath(p string) bool {
	if p == "" {
		return false
	}

	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}

	for _, segment := range strings.Split(p, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
		if strings.Contains(segment, "..") {
			return false
		}
	}

	return true
}

// Level is the depth of a zone-relative path below the zone root folder:
// the root folder itself ("doc") is level 0, "doc/a" is level 1.
func Level(p string) int {
	return strings.Count(p, "/")
}

// Parent returns the path with its last segment removed, or "" when there
// is no separator left.
func Parent(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}

	return ""
}

// Ancestors lists every proper ancestor of p, nearest first, computed by
// repeatedly trimming at the last separator.
func Ancestors(p string) []string {
	var ancestors []string
	for {
		p = Parent(p)
		if p == "" {
			return ancestors
		}
		ancestors = append(ancestors, p)
	}
}

// IsAncestorOf reports whether p sits strictly below ancestor.
func IsAncestorOf(ancestor, p string) bool {
	return strings.HasPrefix(p, ancestor+"/")
}

// Base returns the last path segment.
func Base(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}

	return p
}
