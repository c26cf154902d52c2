package cfsmodel

// License is the content license recorded on published files.
type License int

const (
	LicenseAllRightsReserved License = iota
	LicenseCCBY
	LicenseCCBYSA
	LicenseCCBYND
	LicenseCCBYNC
	LicenseCCBYNCSA
	LicenseCCBYNCND
	LicensePublicDomain
)

func (l License) String() string {
	switch l {
	case LicenseAllRightsReserved:
		return "all_rights_reserved"
	case LicenseCCBY:
		return "cc_by"
	case LicenseCCBYSA:
		return "cc_by_sa"
	case LicenseCCBYND:
		return "cc_by_nd"
	case LicenseCCBYNC:
		return "cc_by_nc"
	case LicenseCCBYNCSA:
		return "cc_by_nc_sa"
	case LicenseCCBYNCND:
		return "cc_by_nc_nd"
	case LicensePublicDomain:
		return "public_domain"
	default:
		return "unknown"
	}
}

func (l License) Valid() bool {
	return l >= LicenseAllRightsReserved && l <= LicensePublicDomain
}
