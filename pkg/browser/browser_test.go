package browser

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
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/zone"
	"github.com/teachstack/coursefs/pkg/zone/zonepath"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type browserTestCase struct {
	*testing.T
	db      *gorm.DB
	stors   *stor.Stors
	browser *Browser
	root    string
	teacher PermissionContext
	student PermissionContext
	scope   zone.Scope
}

func newBrowserTestCase(t *testing.T) *browserTestCase {
	// Each test gets its own named in-memory database so state never
	// leaks between tests sharing the process.
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

	tc := &browserTestCase{
		T:     t,
		db:    db,
		root:  t.TempDir(),
		scope: zone.Scope{Code: 101},
	}

	tc.stors = stor.NewGormStors(db, LogSink{})
	tc.browser = New(Opts{
		Stors:    tc.stors,
		Resolver: zonepath.NewResolver(tc.root, tc.stors.AssignmentStor),
	})

	tc.teacher = tc.createUser("teacher1@test.edu", cfsmodel.RoleTeacher)
	tc.student = tc.createUser("student1@test.edu", cfsmodel.RoleStudent)

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

func (tc *browserTestCase) createUser(email string, role cfsmodel.Role) PermissionContext {
	user, err := tc.stors.UserStor.CreateUser(&cfsmodel.User{Email: email, Role: role})
	require.NoErrorf(tc.T, err, "Failed creating %s: %s", email, err)

	return PermissionContext{UserID: user.ID, Role: role}
}

func (tc *browserTestCase) opCtx(viewer PermissionContext, kind zone.Kind) *OpCtx {
	ctx, err := tc.browser.NewOpCtx(viewer, kind, tc.scope)
	require.NoErrorf(tc.T, err, "NewOpCtx failed: %s", err)

	return ctx
}

func (tc *browserTestCase) mustCreateFolder(ctx *OpCtx, parent, name string) string {
	rel, err := tc.browser.CreateFolder(ctx, parent, name)
	require.NoErrorf(tc.T, err, "CreateFolder %s/%s failed: %s", parent, name, err)

	return rel
}

func (tc *browserTestCase) mustUpload(ctx *OpCtx, parent, name, content string) string {
	rel, err := tc.browser.Upload(ctx, parent, name, strings.NewReader(content))
	require.NoErrorf(tc.T, err, "Upload %s/%s failed: %s", parent, name, err)

	return rel
}

func TestListChildrenFiltersHiddenInShowMode(t *testing.T) {
	tc := newBrowserTestCase(t)

	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)
	tc.mustCreateFolder(adm, "doc", "visible")
	tc.mustCreateFolder(adm, "doc", "secret")
	tc.mustUpload(adm, "doc", "notes.txt", "hello")

	require.NoError(t, tc.browser.SetHidden(adm, "doc/secret", true))

	see := tc.opCtx(tc.student, zone.KindDocCrsSee)
	nodes, err := tc.browser.ListChildren(see, "doc")
	require.NoError(t, err)

	var names []string
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	require.ElementsMatch(t, []string{"visible", "notes.txt"}, names)

	// Show mode can't descend into a hidden folder either.
	_, err = tc.browser.ListChildren(see, "doc/secret")
	require.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestListChildrenDimsHiddenInAdminMode(t *testing.T) {
	tc := newBrowserTestCase(t)

	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)
	tc.mustCreateFolder(adm, "doc", "secret")
	tc.mustUpload(adm, "doc/secret", "inside.txt", "x")
	require.NoError(t, tc.browser.SetHidden(adm, "doc/secret", true))

	nodes, err := tc.browser.ListChildren(adm, "doc")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.True(t, nodes[0].Hidden)
	require.True(t, nodes[0].Dimmed)

	// Dimming propagates: descendants of a hidden folder list dimmed even
	// though their own records are not hidden.
	nodes, err = tc.browser.ListChildren(adm, "doc/secret")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "inside.txt", nodes[0].Name)
	require.False(t, nodes[0].Hidden)
	require.True(t, nodes[0].Dimmed)
}

func TestListChildrenFlagsNewFilesSinceLastVisit(t *testing.T) {
	tc := newBrowserTestCase(t)

	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)
	tc.mustUpload(adm, "doc", "old.txt", "old")

	// Age the first file so it predates the recorded visit below.
	twoHoursAgo := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(adm.Paths.Abs("doc/old.txt"), twoHoursAgo, twoHoursAgo))

	see := tc.opCtx(tc.student, zone.KindDocCrsSee)

	// First visit: nothing can be new, and the visit is recorded.
	nodes, err := tc.browser.ListChildren(see, "doc")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.False(t, nodes[0].New)

	// Backdate the visit so the next upload is strictly newer.
	err = tc.stors.BrowserUsageStor.TouchLastAccess(tc.student.UserID, see.Key, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	tc.mustUpload(adm, "doc", "fresh.txt", "fresh")

	nodes, err = tc.browser.ListChildren(see, "doc")
	require.NoError(t, err)

	byName := map[string]Node{}
	for _, n := range nodes {
		byName[n.Name] = n
	}
	require.True(t, byName["fresh.txt"].New)
	require.False(t, byName["old.txt"].New)
}

func TestValidateZonePathRejectsForeignRoots(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	for _, bad := range []string{"", "sha", "sha/a", "/doc", "doc//a", "doc/../etc", "doc/a/..", "doc\\a"} {
		_, err := tc.browser.ListChildren(adm, bad)
		require.Equalf(t, KindInvalidPath, KindOf(err), "path %q should be invalid", bad)
	}
}
