package cfsmodel

import (
	"strconv"
	"strings"
	"time"
)

// Assignment drives the per-assignment submission folders that materialize
// inside each student's assignments zone. GroupIDs is a comma separated list
// of group codes; empty means the assignment is open to the whole course.
type Assignment struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id" gorm:"index"`
	Title      string `json:"title"`
	FolderName string `json:"folder_name"`
	Hidden     bool   `json:"hidden"`
	StartAt    time.Time
	EndAt      time.Time
	GroupIDs   string `json:"group_ids"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Assignment) TableName() string {
	return "assignments"
}

func (a Assignment) IsOpenAt(t time.Time) bool {
	return !t.Before(a.StartAt) && t.Before(a.EndAt)
}

func (a Assignment) GroupList() []int64 {
	if a.GroupIDs == "" {
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(a.GroupIDs, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

// AvailableTo reports whether the assignment's group restriction (if any)
// includes the given user groups.
func (a Assignment) AvailableTo(userGroupIDs []int64) bool {
	restricted := a.GroupList()
	if len(restricted) == 0 {
		return true
	}

	for _, g := range restricted {
		for _, ug := range userGroupIDs {
			if g == ug {
				return true
			}
		}
	}

	return false
}
