package zone

import (
	"github.com/teachstack/coursefs/pkg/quota"
)

// Kind identifies one of the logical storage areas the browser manages.
// Show/admin pairs are distinct kinds (a read-only listing of course
// documents is a different zone than the editable view of the same tree),
// but both normalize to the same Storage kind for paths and database rows.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocCrsSee
	KindDocCrsAdm
	KindDocGrpSee
	KindDocGrpAdm
	KindTchCrs
	KindTchGrp
	KindShaCrs
	KindShaGrp
	KindMrkCrsSee
	KindMrkCrsAdm
	KindMrkGrpSee
	KindMrkGrpAdm
	KindAsgUsr
	KindAsgCrs
	KindWrkUsr
	KindWrkCrs
	KindBriefcase
	KindDocInsSee
	KindDocInsAdm
	KindShaIns
	KindDocCtrSee
	KindDocCtrAdm
	KindShaCtr
	KindDocDegSee
	KindDocDegAdm
	KindShaDeg
	KindDocPrj
	KindAssPrj

	NumKinds = int(KindAssPrj) + 1
)

// Area says which hierarchy level a zone instance hangs off of, which in
// turn fixes its on-disk location.
type Area int

const (
	AreaNone Area = iota
	AreaIns
	AreaCtr
	AreaDeg
	AreaCrs
	AreaGrp
	AreaPrj
	AreaCrsUsr // per-user zone nested under a course (assignments, works)
	AreaUsr    // per-user zone with no hierarchy scoping (briefcase)
)

// Family groups kinds that share a permission rule.
type Family int

const (
	FamilyNone Family = iota
	FamilyDocCrs
	FamilyDocGrp
	FamilyTch
	FamilyShared
	FamilyMarks
	FamilyAssignments
	FamilyWorks
	FamilyBriefcase
	FamilyDocHier
	FamilySharedHier
	FamilyPrjDoc
	FamilyPrjAss
)

// Descriptor carries every per-kind attribute in one record.
type Descriptor struct {
	Kind      Kind
	Storage   Kind // canonical kind used for paths and DB rows
	RootName  string
	Area      Area
	Family    Family
	Editable  bool
	AdminMode bool // hidden nodes listed (dimmed) instead of filtered out
	Quota     quota.Limits
}

func (d Descriptor) IsMarks() bool {
	return d.Family == FamilyMarks
}

func (d Descriptor) UserScoped() bool {
	return d.Area == AreaCrsUsr || d.Area == AreaUsr
}

const (
	mib = int64(1) << 20
	gib = int64(1) << 30
)

var (
	quotaDocCrs = quota.Limits{MaxBytes: 8 * gib, MaxFiles: 5000, MaxFolders: 1000}
	quotaDocGrp = quota.Limits{MaxBytes: 1 * gib, MaxFiles: 1000, MaxFolders: 500}
	quotaTch    = quota.Limits{MaxBytes: 2 * gib, MaxFiles: 2000, MaxFolders: 500}
	quotaMrk    = quota.Limits{MaxBytes: 1 * gib, MaxFiles: 500, MaxFolders: 100}
	quotaUsr    = quota.Limits{MaxBytes: 512 * mib, MaxFiles: 500, MaxFolders: 100}
	quotaIns    = quota.Limits{MaxBytes: 16 * gib, MaxFiles: 5000, MaxFolders: 1000}
	quotaHier   = quota.Limits{MaxBytes: 8 * gib, MaxFiles: 5000, MaxFolders: 1000}
	quotaPrj    = quota.Limits{MaxBytes: 1 * gib, MaxFiles: 1000, MaxFolders: 500}
)

var registry = map[Kind]Descriptor{
	KindDocCrsSee: {Kind: KindDocCrsSee, Storage: KindDocCrsAdm, RootName: "doc", Area: AreaCrs, Family: FamilyDocCrs, Quota: quotaDocCrs},
	KindDocCrsAdm: {Kind: KindDocCrsAdm, Storage: KindDocCrsAdm, RootName: "doc", Area: AreaCrs, Family: FamilyDocCrs, Editable: true, AdminMode: true, Quota: quotaDocCrs},
	KindDocGrpSee: {Kind: KindDocGrpSee, Storage: KindDocGrpAdm, RootName: "doc", Area: AreaGrp, Family: FamilyDocGrp, Quota: quotaDocGrp},
	KindDocGrpAdm: {Kind: KindDocGrpAdm, Storage: KindDocGrpAdm, RootName: "doc", Area: AreaGrp, Family: FamilyDocGrp, Editable: true, AdminMode: true, Quota: quotaDocGrp},
	KindTchCrs:    {Kind: KindTchCrs, Storage: KindTchCrs, RootName: "tch", Area: AreaCrs, Family: FamilyTch, Editable: true, AdminMode: true, Quota: quotaTch},
	KindTchGrp:    {Kind: KindTchGrp, Storage: KindTchGrp, RootName: "tch", Area: AreaGrp, Family: FamilyTch, Editable: true, AdminMode: true, Quota: quotaTch},
	KindShaCrs:    {Kind: KindShaCrs, Storage: KindShaCrs, RootName: "sha", Area: AreaCrs, Family: FamilyShared, Editable: true, AdminMode: true, Quota: quotaDocCrs},
	KindShaGrp:    {Kind: KindShaGrp, Storage: KindShaGrp, RootName: "sha", Area: AreaGrp, Family: FamilyShared, Editable: true, AdminMode: true, Quota: quotaDocGrp},
	KindMrkCrsSee: {Kind: KindMrkCrsSee, Storage: KindMrkCrsAdm, RootName: "mrk", Area: AreaCrs, Family: FamilyMarks, Quota: quotaMrk},
	KindMrkCrsAdm: {Kind: KindMrkCrsAdm, Storage: KindMrkCrsAdm, RootName: "mrk", Area: AreaCrs, Family: FamilyMarks, Editable: true, AdminMode: true, Quota: quotaMrk},
	KindMrkGrpSee: {Kind: KindMrkGrpSee, Storage: KindMrkGrpAdm, RootName: "mrk", Area: AreaGrp, Family: FamilyMarks, Quota: quotaMrk},
	KindMrkGrpAdm: {Kind: KindMrkGrpAdm, Storage: KindMrkGrpAdm, RootName: "mrk", Area: AreaGrp, Family: FamilyMarks, Editable: true, AdminMode: true, Quota: quotaMrk},
	KindAsgUsr:    {Kind: KindAsgUsr, Storage: KindAsgUsr, RootName: "asg", Area: AreaCrsUsr, Family: FamilyAssignments, Editable: true, AdminMode: true, Quota: quotaUsr},
	KindAsgCrs:    {Kind: KindAsgCrs, Storage: KindAsgUsr, RootName: "asg", Area: AreaCrsUsr, Family: FamilyAssignments, Editable: true, AdminMode: true, Quota: quotaUsr},
	KindWrkUsr:    {Kind: KindWrkUsr, Storage: KindWrkUsr, RootName: "wrk", Area: AreaCrsUsr, Family: FamilyWorks, Editable: true, AdminMode: true, Quota: quotaUsr},
	KindWrkCrs:    {Kind: KindWrkCrs, Storage: KindWrkUsr, RootName: "wrk", Area: AreaCrsUsr, Family: FamilyWorks, Editable: true, AdminMode: true, Quota: quotaUsr},
	KindBriefcase: {Kind: KindBriefcase, Storage: KindBriefcase, RootName: "brf", Area: AreaUsr, Family: FamilyBriefcase, Editable: true, AdminMode: true, Quota: quotaUsr},
	KindDocInsSee: {Kind: KindDocInsSee, Storage: KindDocInsAdm, RootName: "doc", Area: AreaIns, Family: FamilyDocHier, Quota: quotaIns},
	KindDocInsAdm: {Kind: KindDocInsAdm, Storage: KindDocInsAdm, RootName: "doc", Area: AreaIns, Family: FamilyDocHier, Editable: true, AdminMode: true, Quota: quotaIns},
	KindShaIns:    {Kind: KindShaIns, Storage: KindShaIns, RootName: "sha", Area: AreaIns, Family: FamilySharedHier, Editable: true, AdminMode: true, Quota: quotaIns},
	KindDocCtrSee: {Kind: KindDocCtrSee, Storage: KindDocCtrAdm, RootName: "doc", Area: AreaCtr, Family: FamilyDocHier, Quota: quotaHier},
	KindDocCtrAdm: {Kind: KindDocCtrAdm, Storage: KindDocCtrAdm, RootName: "doc", Area: AreaCtr, Family: FamilyDocHier, Editable: true, AdminMode: true, Quota: quotaHier},
	KindShaCtr:    {Kind: KindShaCtr, Storage: KindShaCtr, RootName: "sha", Area: AreaCtr, Family: FamilySharedHier, Editable: true, AdminMode: true, Quota: quotaHier},
	KindDocDegSee: {Kind: KindDocDegSee, Storage: KindDocDegAdm, RootName: "doc", Area: AreaDeg, Family: FamilyDocHier, Quota: quotaHier},
	KindDocDegAdm: {Kind: KindDocDegAdm, Storage: KindDocDegAdm, RootName: "doc", Area: AreaDeg, Family: FamilyDocHier, Editable: true, AdminMode: true, Quota: quotaHier},
	KindShaDeg:    {Kind: KindShaDeg, Storage: KindShaDeg, RootName: "sha", Area: AreaDeg, Family: FamilySharedHier, Editable: true, AdminMode: true, Quota: quotaHier},
	KindDocPrj:    {Kind: KindDocPrj, Storage: KindDocPrj, RootName: "doc", Area: AreaPrj, Family: FamilyPrjDoc, Editable: true, AdminMode: true, Quota: quotaPrj},
	KindAssPrj:    {Kind: KindAssPrj, Storage: KindAssPrj, RootName: "ass", Area: AreaPrj, Family: FamilyPrjAss, Editable: true, AdminMode: true, Quota: quotaPrj},
}

// Get returns the descriptor for kind. The bool is false for KindUnknown
// or any value outside the registry.
func Get(kind Kind) (Descriptor, bool) {
	d, ok := registry[kind]
	return d, ok
}

// Kinds returns every registered kind. Mostly useful for registry tests and
// for the zone listing endpoint.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}

	return kinds
}

func IsEditable(kind Kind) bool {
	d, ok := registry[kind]
	return ok && d.Editable
}

func Limits(kind Kind) quota.Limits {
	return registry[kind].Quota
}
