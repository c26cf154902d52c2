package cfsmodel

import "time"

// ClipboardEntry is the single copy-source slot a user holds. The unique
// index on UserID is what enforces one-slot-per-user; setting a new entry
// always replaces the old one.
type ClipboardEntry struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id" gorm:"uniqueIndex"`
	ZoneKind   int      `json:"zone_kind"`
	ZoneCode   int64    `json:"zone_code"`
	CourseCode int64    `json:"course_code"`
	OwnerCode  int64    `json:"owner_code"`
	FileType   NodeType `json:"file_type"`
	Path       string   `json:"path"`
	CopiedAt   time.Time
}

func (ClipboardEntry) TableName() string {
	return "clipboard"
}
