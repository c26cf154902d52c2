package cfsmodel

import "time"

// FileView is one row of the per-file view ledger. UserID 0 records
// anonymous/public views.
type FileView struct {
	ID        int64 `json:"id"`
	FileID    int64 `json:"file_id" gorm:"index:idx_file_viewer"`
	UserID    int64 `json:"user_id" gorm:"index:idx_file_viewer"`
	NumViews  int   `json:"num_views"`
	UpdatedAt time.Time
}

func (FileView) TableName() string {
	return "file_view"
}

const AnonymousUserID int64 = 0
