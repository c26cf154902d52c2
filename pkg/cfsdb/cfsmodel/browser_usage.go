package cfsmodel

import "time"

// BrowserSize is the denormalized last-computed quota snapshot for one zone
// instance. It exists purely for fast display; live measurement is always
// the ground truth.
type BrowserSize struct {
	ID         int64 `json:"id"`
	ZoneKind   int   `json:"zone_kind" gorm:"index:idx_size_zone"`
	ZoneCode   int64 `json:"zone_code" gorm:"index:idx_size_zone"`
	OwnerCode  int64 `json:"owner_code" gorm:"index:idx_size_zone"`
	NumLevels  int   `json:"num_levels"`
	NumFolders int   `json:"num_folders"`
	NumFiles   int   `json:"num_files"`
	TotalBytes int64 `json:"total_bytes"`
	UpdatedAt  time.Time
}

func (BrowserSize) TableName() string {
	return "file_browser_size"
}

// BrowserLast tracks when a user last listed a zone, used to flag entries
// that are new since their last visit.
type BrowserLast struct {
	ID           int64 `json:"id"`
	UserID       int64 `json:"user_id" gorm:"index:idx_last_zone"`
	ZoneKind     int   `json:"zone_kind" gorm:"index:idx_last_zone"`
	ZoneCode     int64 `json:"zone_code" gorm:"index:idx_last_zone"`
	LastAccessAt time.Time
}

func (BrowserLast) TableName() string {
	return "file_browser_last"
}
