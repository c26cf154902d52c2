package cfsmodel

import (
	"strings"
	"time"
)

// NodeType distinguishes the three kinds of entries a zone tree holds. A
// link is physically a regular file named *.url whose content is the URL
// text, but it is a distinct logical type everywhere above the filesystem.
type NodeType int

const (
	TypeUnknown NodeType = iota
	TypeFile
	TypeFolder
	TypeLink
)

func (t NodeType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeFolder:
		return "folder"
	case TypeLink:
		return "link"
	default:
		return "unknown"
	}
}

// FileRecord is the relational mirror of one entry in a zone tree. Paths are
// zone-relative, forward-slash separated, and always start with the zone's
// root folder name, so the zone root itself is the record whose path has no
// separator.
type FileRecord struct {
	ID          int64    `json:"id"`
	UUID        string   `json:"uuid"`
	ZoneKind    int      `json:"zone_kind" gorm:"index:idx_zone_path"`
	ZoneCode    int64    `json:"zone_code" gorm:"index:idx_zone_path"`
	OwnerCode   int64    `json:"owner_code" gorm:"index:idx_zone_path"`
	Path        string   `json:"path" gorm:"index:idx_zone_path"`
	Slug        string   `json:"slug"`
	Type        NodeType `json:"type"`
	PublisherID int64    `json:"publisher_id"`
	Hidden      bool     `json:"hidden"`
	Public      bool     `json:"public"`
	License     License  `json:"license"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (FileRecord) TableName() string {
	return "files"
}

func (f FileRecord) IsDir() bool {
	return f.Type == TypeFolder
}

func (f FileRecord) IsLink() bool {
	return f.Type == TypeLink
}

// Name returns the last path segment.
func (f FileRecord) Name() string {
	if i := strings.LastIndex(f.Path, "/"); i >= 0 {
		return f.Path[i+1:]
	}

	return f.Path
}

// Level is the node's depth below the zone root. The zone root folder itself
// is level 0 and can never be renamed or deleted.
func (f FileRecord) Level() int {
	return strings.Count(f.Path, "/")
}
