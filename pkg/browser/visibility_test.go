package browser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/zone"
)

func TestHiddenAncestorHidesWholeSubtree(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	tc.mustCreateFolder(adm, "doc", "a")
	tc.mustCreateFolder(adm, "doc/a", "b")
	tc.mustUpload(adm, "doc/a/b", "deep.txt", "x")

	require.NoError(t, tc.browser.SetHidden(adm, "doc/a", true))

	see := tc.opCtx(tc.student, zone.KindDocCrsSee)

	// Only the hidden folder has a flag set, yet everything below it is
	// unreachable in show mode.
	for _, p := range []string{"doc/a", "doc/a/b"} {
		_, err := tc.browser.ListChildren(see, p)
		require.Equalf(t, KindPermissionDenied, KindOf(err), "%s should be unreachable", p)
	}

	require.NoError(t, tc.browser.SetHidden(adm, "doc/a", false))

	_, err := tc.browser.ListChildren(see, "doc/a/b")
	require.NoError(t, err)
}

func TestSetPublicAndLicense(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	rel := tc.mustUpload(adm, "doc", "open.txt", "x")

	err := tc.browser.SetPublicAndLicense(adm, rel, true, cfsmodel.LicenseCCBY)
	require.NoError(t, err)

	record, err := tc.stors.FileStor.GetByPath(adm.Key, rel)
	require.NoError(t, err)
	require.True(t, record.Public)
	require.Equal(t, cfsmodel.LicenseCCBY, record.License)
	require.Equal(t, tc.teacher.UserID, record.PublisherID)
}

func TestViewCounts(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	rel := tc.mustUpload(adm, "doc", "popular.txt", "x")

	require.NoError(t, tc.browser.RecordFileView(adm, rel, tc.student.UserID))
	require.NoError(t, tc.browser.RecordFileView(adm, rel, tc.student.UserID))
	require.NoError(t, tc.browser.RecordFileView(adm, rel, tc.teacher.UserID))
	require.NoError(t, tc.browser.RecordFileView(adm, rel, cfsmodel.AnonymousUserID))

	counts, err := tc.browser.GetViewCounts(adm, rel)
	require.NoError(t, err)
	require.Equal(t, 3, counts.LoggedViews)
	require.Equal(t, 1, counts.AnonViews)
	require.Equal(t, 2, counts.DistinctUsers)
}
