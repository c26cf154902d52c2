package stor

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teachstack/coursefs/pkg/cfsdb"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/quota"
	"github.com/teachstack/coursefs/pkg/zone"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type storTestCase struct {
	*testing.T
	db    *gorm.DB
	stors *Stors
	key   ZoneKey
}

func newStorTestCase(t *testing.T) *storTestCase {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	gormLogger := logger.New(stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second * 5,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		})

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)

	// Set the sqlite db to 1 connection. This gets around table lock
	// issues from multiple threads.
	sqlitedb.SetMaxOpenConns(1)

	err = cfsdb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	tc := &storTestCase{
		T:     t,
		db:    db,
		key:   ZoneKey{Kind: zone.KindDocCrsAdm, Code: 101},
		stors: NewGormStors(db, nil),
	}

	t.Cleanup(func() {
		time.Sleep(time.Millisecond)
		sqlDB, err := tc.db.DB()
		if err != nil || sqlDB == nil {
			return
		}
		_ = sqlDB.Close()
	})

	return tc
}

func (tc *storTestCase) mustEnsure(key ZoneKey, path string, ftype cfsmodel.NodeType) *cfsmodel.FileRecord {
	record, err := tc.stors.FileStor.EnsureRecord(key, path, ftype, 1)
	require.NoErrorf(tc.T, err, "EnsureRecord %s failed: %s", path, err)

	return record
}

func TestEnsureRecordIsIdempotent(t *testing.T) {
	tc := newStorTestCase(t)

	first := tc.mustEnsure(tc.key, "doc/a", cfsmodel.TypeFolder)
	require.NotEmpty(t, first.UUID)
	require.Equal(t, "a", first.Slug)

	second := tc.mustEnsure(tc.key, "doc/a", cfsmodel.TypeFolder)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.UUID, second.UUID)
}

func TestZoneKeysIsolateRecords(t *testing.T) {
	tc := newStorTestCase(t)

	otherCourse := ZoneKey{Kind: zone.KindDocCrsAdm, Code: 202}
	otherKind := ZoneKey{Kind: zone.KindTchCrs, Code: 101}

	tc.mustEnsure(tc.key, "doc/a", cfsmodel.TypeFolder)
	tc.mustEnsure(otherCourse, "doc/a", cfsmodel.TypeFolder)

	require.NoError(t, tc.stors.FileStor.SetHidden(tc.key, "doc/a", true))

	record, err := tc.stors.FileStor.GetByPath(otherCourse, "doc/a")
	require.NoError(t, err)
	require.False(t, record.Hidden)

	missing, err := tc.stors.FileStor.GetByPath(otherKind, "doc/a")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRenameDescendantsLeavesPrefixSiblingsAlone(t *testing.T) {
	tc := newStorTestCase(t)

	tc.mustEnsure(tc.key, "doc/a", cfsmodel.TypeFolder)
	tc.mustEnsure(tc.key, "doc/a/x.txt", cfsmodel.TypeFile)
	tc.mustEnsure(tc.key, "doc/ab", cfsmodel.TypeFolder)
	tc.mustEnsure(tc.key, "doc/ab/y.txt", cfsmodel.TypeFile)

	// Underscore is a LIKE wildcard; this sibling must survive a rename
	// of doc/a too.
	tc.mustEnsure(tc.key, "doc/a_c", cfsmodel.TypeFolder)

	require.NoError(t, tc.stors.FileStor.RenameNode(tc.key, "doc/a", "doc/z"))
	require.NoError(t, tc.stors.FileStor.RenameDescendants(tc.key, "doc/a", "doc/z"))

	moved, err := tc.stors.FileStor.GetByPath(tc.key, "doc/z/x.txt")
	require.NoError(t, err)
	require.NotNil(t, moved)

	for _, untouched := range []string{"doc/ab", "doc/ab/y.txt", "doc/a_c"} {
		record, err := tc.stors.FileStor.GetByPath(tc.key, untouched)
		require.NoError(t, err)
		require.NotNilf(t, record, "%s should be untouched", untouched)
	}
}

func TestIsHiddenOrUnderHiddenAncestor(t *testing.T) {
	tc := newStorTestCase(t)

	tc.mustEnsure(tc.key, "doc/a", cfsmodel.TypeFolder)
	tc.mustEnsure(tc.key, "doc/a/b", cfsmodel.TypeFolder)
	require.NoError(t, tc.stors.FileStor.SetHidden(tc.key, "doc/a", true))

	for path, expected := range map[string]bool{
		"doc/a":     true,
		"doc/a/b":   true,
		"doc/a/b/c": true,
		"doc/ab":    false,
		"doc":       false,
	} {
		hidden, err := tc.stors.FileStor.IsHiddenOrUnderHiddenAncestor(tc.key, path)
		require.NoError(t, err)
		require.Equalf(t, expected, hidden, "path %s", path)
	}
}

func TestClipboardSingleSlot(t *testing.T) {
	tc := newStorTestCase(t)

	set := func(path string) {
		err := tc.stors.ClipboardStor.Set(&cfsmodel.ClipboardEntry{
			UserID:   7,
			ZoneKind: int(tc.key.Kind),
			ZoneCode: tc.key.Code,
			FileType: cfsmodel.TypeFolder,
			Path:     path,
		})
		require.NoError(tc.T, err)
	}

	set("doc/a")
	set("doc/b")

	entry, err := tc.stors.ClipboardStor.GetForUser(7)
	require.NoError(t, err)
	require.Equal(t, "doc/b", entry.Path)

	var count int64
	require.NoError(t, tc.db.Model(&cfsmodel.ClipboardEntry{}).Where("user_id = ?", int64(7)).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestClipboardInvalidateAndSweep(t *testing.T) {
	tc := newStorTestCase(t)

	err := tc.stors.ClipboardStor.Set(&cfsmodel.ClipboardEntry{
		UserID: 7, ZoneKind: int(tc.key.Kind), ZoneCode: tc.key.Code, Path: "doc/a",
	})
	require.NoError(t, err)

	err = tc.stors.ClipboardStor.Set(&cfsmodel.ClipboardEntry{
		UserID: 8, ZoneKind: int(zone.KindTchCrs), ZoneCode: tc.key.Code, Path: "tch/b",
	})
	require.NoError(t, err)

	require.NoError(t, tc.stors.ClipboardStor.InvalidateForZone(tc.key))

	entry, err := tc.stors.ClipboardStor.GetForUser(7)
	require.NoError(t, err)
	require.Nil(t, entry)

	entry, err = tc.stors.ClipboardStor.GetForUser(8)
	require.NoError(t, err)
	require.NotNil(t, entry)

	// Age the survivor past the TTL and sweep it away.
	err = tc.db.Model(&cfsmodel.ClipboardEntry{}).
		Where("user_id = ?", int64(8)).
		Update("copied_at", time.Now().Add(-48*time.Hour)).Error
	require.NoError(t, err)

	require.NoError(t, tc.stors.ClipboardStor.SweepExpired(24*time.Hour))

	entry, err = tc.stors.ClipboardStor.GetForUser(8)
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestSaveSnapshotUpserts(t *testing.T) {
	tc := newStorTestCase(t)

	err := tc.stors.BrowserUsageStor.SaveSnapshot(tc.key, quota.Snapshot{NumFiles: 1, TotalBytes: 10})
	require.NoError(t, err)

	err = tc.stors.BrowserUsageStor.SaveSnapshot(tc.key, quota.Snapshot{NumFiles: 2, TotalBytes: 30})
	require.NoError(t, err)

	row, err := tc.stors.BrowserUsageStor.GetSnapshot(tc.key)
	require.NoError(t, err)
	require.Equal(t, 2, row.NumFiles)
	require.Equal(t, int64(30), row.TotalBytes)

	var count int64
	require.NoError(t, tc.db.Model(&cfsmodel.BrowserSize{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestGetLastAccessReportsMissing(t *testing.T) {
	tc := newStorTestCase(t)

	_, found, err := tc.stors.BrowserUsageStor.GetLastAccess(7, tc.key)
	require.NoError(t, err)
	require.False(t, found)

	when := time.Now().Round(time.Second)
	require.NoError(t, tc.stors.BrowserUsageStor.TouchLastAccess(7, tc.key, when))

	got, found, err := tc.stors.BrowserUsageStor.GetLastAccess(7, tc.key)
	require.NoError(t, err)
	require.True(t, found)
	require.WithinDuration(t, when, got, time.Second)
}

func TestActiveAssignmentFolders(t *testing.T) {
	tc := newStorTestCase(t)

	create := func(a cfsmodel.Assignment) {
		_, err := tc.stors.AssignmentStor.CreateAssignment(&a)
		require.NoError(tc.T, err)
	}

	now := time.Now()
	create(cfsmodel.Assignment{CourseID: 101, FolderName: "open", StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour)})
	create(cfsmodel.Assignment{CourseID: 101, FolderName: "closed", StartAt: now.Add(-2 * time.Hour), EndAt: now.Add(-time.Hour)})
	create(cfsmodel.Assignment{CourseID: 101, FolderName: "hidden", Hidden: true, StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour)})
	create(cfsmodel.Assignment{CourseID: 101, FolderName: "grouped", GroupIDs: "5,6", StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour)})
	create(cfsmodel.Assignment{CourseID: 999, FolderName: "other-course", StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour)})

	folders, err := tc.stors.AssignmentStor.ActiveAssignmentFolders(101, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"open"}, folders)

	folders, err = tc.stors.AssignmentStor.ActiveAssignmentFolders(101, []int64{6})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"open", "grouped"}, folders)
}
