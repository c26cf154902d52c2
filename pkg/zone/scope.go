package zone

// Scope picks out one concrete instance of a zone kind. It is derived per
// request and never persisted on its own; only its codes are embedded in
// metadata, clipboard and expanded-folder rows.
//
// Code is the institution/centre/degree/course/group/project code, per the
// kind's Area. CourseCode carries the enclosing course for group-scoped and
// per-user-under-course zones. UserCode is the owning user for per-user
// zones and zero otherwise.
type Scope struct {
	Code       int64
	CourseCode int64
	UserCode   int64
}

// OwnerCode is what gets written to the owner column of persisted rows:
// only per-user zones record an owner.
func (s Scope) OwnerCode(d Descriptor) int64 {
	if d.UserScoped() {
		return s.UserCode
	}

	return 0
}

// Same reports whether two scopes identify the same zone instance of the
// given descriptor.
func (s Scope) Same(other Scope, d Descriptor) bool {
	if s.Code != other.Code {
		return false
	}

	if d.UserScoped() && s.UserCode != other.UserCode {
		return false
	}

	return true
}
