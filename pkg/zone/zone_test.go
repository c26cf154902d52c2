package zone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEveryKindIsRegistered(t *testing.T) {
	require.Len(t, Kinds(), NumKinds-1)

	for _, kind := range Kinds() {
		d, ok := Get(kind)
		require.Truef(t, ok, "kind %d missing from registry", kind)
		require.Equal(t, kind, d.Kind)
		require.NotEmptyf(t, d.RootName, "kind %d has no root folder name", kind)
		require.NotEqualf(t, AreaNone, d.Area, "kind %d has no area", kind)
		require.NotEqualf(t, FamilyNone, d.Family, "kind %d has no family", kind)
		require.Positivef(t, d.Quota.MaxBytes, "kind %d has no byte quota", kind)

		// Storage normalization always lands on a registered kind that
		// stores under the same root folder name.
		storage, ok := Get(d.Storage)
		require.Truef(t, ok, "kind %d normalizes to unregistered %d", kind, d.Storage)
		require.Equal(t, d.RootName, storage.RootName)
	}
}

func TestShowAdminPairsShareStorage(t *testing.T) {
	pairs := [][2]Kind{
		{KindDocCrsSee, KindDocCrsAdm},
		{KindDocGrpSee, KindDocGrpAdm},
		{KindMrkCrsSee, KindMrkCrsAdm},
		{KindMrkGrpSee, KindMrkGrpAdm},
		{KindDocInsSee, KindDocInsAdm},
		{KindDocCtrSee, KindDocCtrAdm},
		{KindDocDegSee, KindDocDegAdm},
	}

	for _, pair := range pairs {
		see, _ := Get(pair[0])
		adm, _ := Get(pair[1])

		require.Equal(t, adm.Kind, see.Storage)
		require.Equal(t, adm.Kind, adm.Storage)
		require.False(t, see.Editable)
		require.False(t, see.AdminMode)
		require.True(t, adm.Editable)
		require.True(t, adm.AdminMode)
		require.Equal(t, see.Quota, adm.Quota)
	}
}

func TestCourseScopedAssignmentZonesStorePerUser(t *testing.T) {
	asgCrs, _ := Get(KindAsgCrs)
	require.Equal(t, KindAsgUsr, asgCrs.Storage)

	wrkCrs, _ := Get(KindWrkCrs)
	require.Equal(t, KindWrkUsr, wrkCrs.Storage)
}

func TestScopeOwnerCode(t *testing.T) {
	briefcase, _ := Get(KindBriefcase)
	docCrs, _ := Get(KindDocCrsAdm)

	s := Scope{Code: 7, UserCode: 42}

	require.Equal(t, int64(42), s.OwnerCode(briefcase))
	require.Equal(t, int64(0), s.OwnerCode(docCrs))
}
