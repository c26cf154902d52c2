package stor

import (
	"time"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/quota"
	"github.com/teachstack/coursefs/pkg/zone"
	"gorm.io/gorm"
)

// ZoneKey identifies one zone instance in persisted rows: storage kind,
// scoping code, and owning user code (0 for zones that aren't per-user).
// Callers normalize show/admin kind pairs to the storage kind before
// building a key.
type ZoneKey struct {
	Kind  zone.Kind
	Code  int64
	Owner int64
}

func KeyFor(d zone.Descriptor, scope zone.Scope) ZoneKey {
	return ZoneKey{
		Kind:  d.Storage,
		Code:  scope.Code,
		Owner: scope.OwnerCode(d),
	}
}

// NotificationSink is the notification collaborator. FanOut announces a new
// file to zone watchers; MarkRemoved flags references to a deleted file as
// unavailable. Failures are logged, never fatal to the file operation.
type NotificationSink interface {
	FanOut(eventKind string, fileID int64) error
	MarkRemoved(fileID int64) error
}

type FileStor interface {
	GetByPath(key ZoneKey, path string) (*cfsmodel.FileRecord, error)
	GetByID(fileID int64) (*cfsmodel.FileRecord, error)
	EnsureRecord(key ZoneKey, path string, ftype cfsmodel.NodeType, publisherID int64) (*cfsmodel.FileRecord, error)
	SetHidden(key ZoneKey, path string, hidden bool) error
	SetPublicAndLicense(key ZoneKey, path string, publisherID int64, public bool, license cfsmodel.License) error
	IsHiddenOrUnderHiddenAncestor(key ZoneKey, path string) (bool, error)
	HiddenPathsInZone(key ZoneKey) ([]string, error)
	RenameNode(key ZoneKey, oldPath, newPath string) error
	RenameDescendants(key ZoneKey, oldPath, newPath string) error
	DeleteNode(key ZoneKey, path string) error
	DeleteDescendants(key ZoneKey, path string) error
	ListPublishersInSubtree(key ZoneKey, path string) ([]int64, error)
	ListZones() ([]ZoneKey, error)
	RecordView(fileID, viewerID int64) error
	CountLoggedViews(fileID int64) (int, error)
	CountAnonymousViews(fileID int64) (int, error)
	CountDistinctLoggedViewers(fileID int64) (int, error)
}

type ClipboardStor interface {
	GetForUser(userID int64) (*cfsmodel.ClipboardEntry, error)
	Set(entry *cfsmodel.ClipboardEntry) error
	Clear(userID int64) error
	InvalidateForZone(key ZoneKey) error
	SweepExpired(ttl time.Duration) error
}

type ExpandedFolderStor interface {
	Expand(userID int64, key ZoneKey, path string) error
	Contract(userID int64, key ZoneKey, path string) error
	IsExpanded(userID int64, key ZoneKey, path string) (bool, error)
	RenamePrefix(key ZoneKey, oldPath, newPath string) error
	DeletePrefix(key ZoneKey, path string) error
	RemoveExpired(ttl time.Duration) error
}

type BrowserUsageStor interface {
	SaveSnapshot(key ZoneKey, s quota.Snapshot) error
	GetSnapshot(key ZoneKey) (*cfsmodel.BrowserSize, error)
	TouchLastAccess(userID int64, key ZoneKey, t time.Time) error
	GetLastAccess(userID int64, key ZoneKey) (time.Time, bool, error)
}

type AssignmentStor interface {
	CreateAssignment(assignment *cfsmodel.Assignment) (*cfsmodel.Assignment, error)
	ActiveAssignmentFolders(courseID int64, ownerGroupIDs []int64) ([]string, error)
	GetAssignmentByFolder(courseID int64, folder string) (*cfsmodel.Assignment, error)
}

type UserStor interface {
	CreateUser(user *cfsmodel.User) (*cfsmodel.User, error)
	GetUserByID(userID int64) (*cfsmodel.User, error)
	GetUserByAPIToken(apitoken string) (*cfsmodel.User, error)
}

type Stors struct {
	FileStor           FileStor
	ClipboardStor      ClipboardStor
	ExpandedFolderStor ExpandedFolderStor
	BrowserUsageStor   BrowserUsageStor
	AssignmentStor     AssignmentStor
	UserStor           UserStor
}

func NewGormStors(db *gorm.DB, sink NotificationSink) *Stors {
	return &Stors{
		FileStor:           NewGormFileStor(db, sink),
		ClipboardStor:      NewGormClipboardStor(db),
		ExpandedFolderStor: NewGormExpandedFolderStor(db),
		BrowserUsageStor:   NewGormBrowserUsageStor(db),
		AssignmentStor:     NewGormAssignmentStor(db),
		UserStor:           NewGormUserStor(db),
	}
}
