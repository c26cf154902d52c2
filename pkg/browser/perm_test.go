package browser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/zone"
)

func TestSharedZoneStudentCanOnlyRemoveOwnContributions(t *testing.T) {
	tc := newBrowserTestCase(t)

	shaTeacher := tc.opCtx(tc.teacher, zone.KindShaCrs)
	tc.mustCreateFolder(shaTeacher, "sha", "teachers-folder")

	shaStudent := tc.opCtx(tc.student, zone.KindShaCrs)
	rel, err := tc.browser.CreateFolder(shaStudent, "sha", "my-folder")
	require.NoError(t, err)
	_, err = tc.browser.Upload(shaStudent, rel, "mine.txt", strings.NewReader("x"))
	require.NoError(t, err)

	// Their own subtree: sole publisher throughout.
	require.NoError(t, tc.browser.DeleteFile(shaStudent, rel+"/mine.txt"))

	// The teacher's node is off limits.
	err = tc.browser.DeleteFolder(shaStudent, "sha/teachers-folder")
	require.Equal(t, KindPermissionDenied, KindOf(err))

	// Teachers can remove anything.
	require.NoError(t, tc.browser.DeleteFolder(shaTeacher, "sha/my-folder"))
}

func TestSoleSubtreePublisherBlocksMixedSubtrees(t *testing.T) {
	tc := newBrowserTestCase(t)

	shaStudent := tc.opCtx(tc.student, zone.KindShaCrs)
	rel := tc.mustCreateFolder(shaStudent, "sha", "shared-work")

	// A teacher drops a file inside the student's folder.
	shaTeacher := tc.opCtx(tc.teacher, zone.KindShaCrs)
	tc.mustUpload(shaTeacher, rel, "addendum.txt", "t")

	// Now the student is no longer the sole publisher of the subtree.
	err := tc.browser.DeleteTree(shaStudent, rel)
	require.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestBriefcaseIsOwnerOnly(t *testing.T) {
	tc := newBrowserTestCase(t)

	tc.scope = zone.Scope{UserCode: tc.student.UserID}
	brf := tc.opCtx(tc.student, zone.KindBriefcase)

	rel := tc.mustCreateFolder(brf, "brf", "drafts")

	// Even a teacher cannot touch someone else's briefcase.
	other := tc.opCtx(tc.teacher, zone.KindBriefcase)
	_, err := tc.browser.CreateFolder(other, "brf", "intruder")
	require.Equal(t, KindPermissionDenied, KindOf(err))

	require.NoError(t, tc.browser.DeleteFolder(brf, rel))
}

func TestAssignmentSubmissionWindow(t *testing.T) {
	tc := newBrowserTestCase(t)

	_, err := tc.stors.AssignmentStor.CreateAssignment(&cfsmodel.Assignment{
		CourseID:   tc.scope.Code,
		Title:      "Essay 1",
		FolderName: "essay1",
		StartAt:    time.Now().Add(-time.Hour),
		EndAt:      time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = tc.stors.AssignmentStor.CreateAssignment(&cfsmodel.Assignment{
		CourseID:   tc.scope.Code,
		Title:      "Essay 2",
		FolderName: "essay2",
		StartAt:    time.Now().Add(-2 * time.Hour),
		EndAt:      time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	tc.scope = zone.Scope{Code: tc.scope.Code, UserCode: tc.student.UserID}
	asg := tc.opCtx(tc.student, zone.KindAsgUsr)

	// Zone resolution materialized the open assignment's folder.
	_, err = tc.browser.Upload(asg, "asg/essay1", "draft.txt", strings.NewReader("x"))
	require.NoError(t, err)

	// The closed assignment's folder was not materialized, and even a
	// manually addressed write is refused for students.
	_, err = tc.browser.CreateFolder(asg, "asg/essay2", "sub")
	require.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestMarksZoneRequiresTeacher(t *testing.T) {
	tc := newBrowserTestCase(t)

	mrk := tc.opCtx(tc.student, zone.KindMrkCrsAdm)
	_, err := tc.browser.CreateFolder(mrk, "mrk", "grades")
	require.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestCreateDeniedAtMaxTreeDepth(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	parent := "doc"
	for i := 0; i < 9; i++ {
		parent = tc.mustCreateFolder(adm, parent, "d")
	}

	// parent is now at level 9; one more child is still allowed, but a
	// child of that child would pass the depth cap.
	last, err := tc.browser.CreateFolder(adm, parent, "d")
	require.NoError(t, err)

	_, err = tc.browser.CreateFolder(adm, last, "d")
	require.Equal(t, KindQuotaExceededLevels, KindOf(err))
}
