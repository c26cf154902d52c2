package cfsmodel

import "time"

// ExpandedFolder records one folder a user has opened in the tree view.
// ClickedAt is bumped for the whole zone on every expand/contract so TTL
// sweeping works off last-touched, not first-expanded.
type ExpandedFolder struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id" gorm:"index:idx_expanded_zone"`
	ZoneKind  int    `json:"zone_kind" gorm:"index:idx_expanded_zone"`
	ZoneCode  int64  `json:"zone_code" gorm:"index:idx_expanded_zone"`
	OwnerCode int64  `json:"owner_code" gorm:"index:idx_expanded_zone"`
	Path      string `json:"path"`
	ClickedAt time.Time
}

func (ExpandedFolder) TableName() string {
	return "expanded_folders"
}
