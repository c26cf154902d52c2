package browser

import (
	"strings"
	"time"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/quota"
	"github.com/teachstack/coursefs/pkg/zone"
	"github.com/teachstack/coursefs/pkg/zone/zonepath"
)

// ProjectRole is a user's role within one project.
type ProjectRole int

const (
	ProjectRoleNone ProjectRole = iota
	ProjectRoleMember
	ProjectRoleTutor
	ProjectRoleEvaluator
)

// PermissionContext is supplied by the session layer: who is acting, with
// what platform role, and which groups/projects they belong to.
type PermissionContext struct {
	UserID       int64
	Role         cfsmodel.Role
	GroupIDs     []int64
	ProjectRoles map[int64][]ProjectRole
}

func (c PermissionContext) InGroup(groupID int64) bool {
	for _, g := range c.GroupIDs {
		if g == groupID {
			return true
		}
	}

	return false
}

func (c PermissionContext) HasProjectRole(projectID int64, wanted ...ProjectRole) bool {
	for _, have := range c.ProjectRoles[projectID] {
		for _, w := range wanted {
			if have == w {
				return true
			}
		}
	}

	return false
}

// IsZoneOwner reports whether the viewer owns a per-user zone instance.
func (c PermissionContext) IsZoneOwner(d zone.Descriptor, scope zone.Scope) bool {
	return d.UserScoped() && scope.UserCode == c.UserID
}

// minHierAdminRole is the role required to edit institution, centre and
// degree document zones.
func minHierAdminRole(area zone.Area) cfsmodel.Role {
	switch area {
	case zone.AreaIns:
		return cfsmodel.RoleInsAdmin
	case zone.AreaCtr:
		return cfsmodel.RoleCtrAdmin
	case zone.AreaDeg:
		return cfsmodel.RoleDegAdmin
	default:
		return cfsmodel.RoleSysAdmin
	}
}

// CanEditNode decides whether the viewer may rename or delete the node at
// rel. The zone root (level 0) is never editable by anyone.
func (b *Browser) CanEditNode(ctx *OpCtx, rel string) error {
	if zonepath.Level(rel) == 0 {
		return opErr(KindPermissionDenied, rel)
	}

	if !ctx.Desc.Editable {
		return opErr(KindPermissionDenied, rel)
	}

	viewer := ctx.Viewer

	switch ctx.Desc.Family {
	case zone.FamilyDocCrs, zone.FamilyMarks:
		if viewer.Role >= cfsmodel.RoleTeacher {
			return nil
		}

	case zone.FamilyDocGrp:
		if viewer.Role > cfsmodel.RoleTeacher {
			return nil
		}
		if viewer.Role == cfsmodel.RoleTeacher && viewer.InGroup(ctx.Scope.Code) {
			return nil
		}

	case zone.FamilyTch, zone.FamilyShared, zone.FamilySharedHier:
		if viewer.Role >= cfsmodel.RoleTeacher {
			return nil
		}
		if viewer.Role == cfsmodel.RoleStudent || viewer.Role == cfsmodel.RoleNonEditingTeacher {
			if publisher, ok := b.soleSubtreePublisher(ctx, rel); ok && publisher == viewer.UserID {
				return nil
			}
		}

	case zone.FamilyAssignments:
		return b.canTouchAssignmentNode(ctx, rel)

	case zone.FamilyWorks:
		if viewer.Role >= cfsmodel.RoleTeacher || viewer.IsZoneOwner(ctx.Desc, ctx.Scope) {
			return nil
		}

	case zone.FamilyBriefcase:
		if viewer.IsZoneOwner(ctx.Desc, ctx.Scope) {
			return nil
		}

	case zone.FamilyDocHier:
		if viewer.Role >= minHierAdminRole(ctx.Desc.Area) {
			return nil
		}

	case zone.FamilyPrjDoc:
		return b.canTouchProjectNode(ctx, rel, ProjectRoleMember, ProjectRoleTutor, ProjectRoleEvaluator)

	case zone.FamilyPrjAss:
		return b.canTouchProjectNode(ctx, rel, ProjectRoleTutor, ProjectRoleEvaluator)
	}

	return opErr(KindPermissionDenied, rel)
}

// CanCreateInto decides whether the viewer may create a child inside the
// folder at rel.
func (b *Browser) CanCreateInto(ctx *OpCtx, rel string) error {
	level := zonepath.Level(rel)
	if level >= quota.MaxTreeLevels {
		return opErr(KindQuotaExceededLevels, rel)
	}

	viewer := ctx.Viewer
	if viewer.Role < cfsmodel.RoleStudent {
		return opErr(KindPermissionDenied, rel)
	}

	if !ctx.Desc.Editable {
		return opErr(KindPermissionDenied, rel)
	}

	switch ctx.Desc.Family {
	case zone.FamilyDocCrs, zone.FamilyMarks:
		if viewer.Role >= cfsmodel.RoleTeacher {
			return nil
		}

	case zone.FamilyDocGrp:
		if viewer.Role > cfsmodel.RoleTeacher {
			return nil
		}
		if viewer.Role == cfsmodel.RoleTeacher && viewer.InGroup(ctx.Scope.Code) {
			return nil
		}

	case zone.FamilyTch:
		if viewer.Role >= cfsmodel.RoleNonEditingTeacher {
			return nil
		}

	case zone.FamilyShared:
		// One role-step more permissive than editing: students can
		// contribute to shared zones, group-scoped ones require
		// membership.
		if viewer.Role > cfsmodel.RoleTeacher {
			return nil
		}
		if ctx.Desc.Area == zone.AreaGrp && !viewer.InGroup(ctx.Scope.Code) {
			return opErr(KindPermissionDenied, rel)
		}
		if viewer.Role >= cfsmodel.RoleStudent {
			return nil
		}

	case zone.FamilySharedHier:
		if viewer.Role >= cfsmodel.RoleStudent {
			return nil
		}

	case zone.FamilyAssignments:
		// Submission folders at level 0 are created only by the
		// automatic materialization on zone resolution, never by hand.
		if level == 0 {
			return opErr(KindPermissionDenied, rel)
		}
		return b.canTouchAssignmentNode(ctx, rel)

	case zone.FamilyWorks:
		if viewer.Role >= cfsmodel.RoleTeacher || viewer.IsZoneOwner(ctx.Desc, ctx.Scope) {
			return nil
		}

	case zone.FamilyBriefcase:
		if viewer.IsZoneOwner(ctx.Desc, ctx.Scope) {
			return nil
		}

	case zone.FamilyDocHier:
		if viewer.Role >= minHierAdminRole(ctx.Desc.Area) {
			return nil
		}

	case zone.FamilyPrjDoc:
		if viewer.Role == cfsmodel.RoleSysAdmin ||
			viewer.HasProjectRole(ctx.Scope.Code, ProjectRoleMember, ProjectRoleTutor, ProjectRoleEvaluator) {
			return nil
		}

	case zone.FamilyPrjAss:
		if viewer.Role == cfsmodel.RoleSysAdmin ||
			viewer.HasProjectRole(ctx.Scope.Code, ProjectRoleTutor, ProjectRoleEvaluator) {
			return nil
		}
	}

	return opErr(KindPermissionDenied, rel)
}

// canTouchAssignmentNode gates mutations inside an assignments zone. The
// first folder below the zone root corresponds to an assignment; the node
// is only touchable when that assignment is visible, covers the viewer's
// groups, and (for students and non-editing teachers) is still open.
func (b *Browser) canTouchAssignmentNode(ctx *OpCtx, rel string) error {
	viewer := ctx.Viewer

	if !viewer.IsZoneOwner(ctx.Desc, ctx.Scope) && viewer.Role < cfsmodel.RoleTeacher {
		return opErr(KindPermissionDenied, rel)
	}

	segments := strings.Split(rel, "/")
	if len(segments) < 2 {
		return opErr(KindPermissionDenied, rel)
	}

	assignment, err := b.stors.AssignmentStor.GetAssignmentByFolder(ctx.Scope.Code, segments[1])
	if err != nil {
		return ioErr(rel, err)
	}
	if assignment == nil || assignment.Hidden {
		return opErr(KindPermissionDenied, rel)
	}
	if !assignment.AvailableTo(viewer.GroupIDs) && viewer.Role < cfsmodel.RoleTeacher {
		return opErr(KindPermissionDenied, rel)
	}
	if viewer.Role < cfsmodel.RoleTeacher && !assignment.IsOpenAt(time.Now()) {
		return opErr(KindPermissionDenied, rel)
	}

	return nil
}

// canTouchProjectNode gates project zones: the viewer needs the right
// project role and must be the sole publisher of the whole subtree, so one
// participant can never remove another's contributions. SysAdmin bypasses.
func (b *Browser) canTouchProjectNode(ctx *OpCtx, rel string, roles ...ProjectRole) error {
	viewer := ctx.Viewer

	if viewer.Role == cfsmodel.RoleSysAdmin {
		return nil
	}

	if !viewer.HasProjectRole(ctx.Scope.Code, roles...) {
		return opErr(KindPermissionDenied, rel)
	}

	if publisher, ok := b.soleSubtreePublisher(ctx, rel); ok && publisher == viewer.UserID {
		return nil
	}

	return opErr(KindPermissionDenied, rel)
}

// soleSubtreePublisher returns the one user that published every node at
// and below rel. Any disagreement, including zero records, yields no owner.
func (b *Browser) soleSubtreePublisher(ctx *OpCtx, rel string) (int64, bool) {
	publishers, err := b.stors.FileStor.ListPublishersInSubtree(ctx.Key, rel)
	if err != nil || len(publishers) != 1 {
		return 0, false
	}

	return publishers[0], true
}
