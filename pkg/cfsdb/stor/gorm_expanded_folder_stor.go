package stor

import (
	"errors"
	"strings"
	"time"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"gorm.io/gorm"
)

type GormExpandedFolderStor struct {
	db *gorm.DB
}

func NewGormExpandedFolderStor(db *gorm.DB) *GormExpandedFolderStor {
	return &GormExpandedFolderStor{db: db}
}

func expandedZoneScoped(db *gorm.DB, key ZoneKey) *gorm.DB {
	return db.Where("zone_kind = ?", int(key.Kind)).
		Where("zone_code = ?", key.Code).
		Where("owner_code = ?", key.Owner)
}

// Expand inserts path and every missing ancestor, then bumps the click
// timestamp for all of the user's entries in the zone so TTL sweeping runs
// off last-touched.
func (s *GormExpandedFolderStor) Expand(userID int64, key ZoneKey, path string) error {
	now := time.Now()
	paths := append([]string{path}, ancestorsOf(path)...)

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for _, p := range paths {
			var existing cfsmodel.ExpandedFolder

			err := expandedZoneScoped(tx.Where("user_id = ?", userID), key).
				Where("path = ?", p).
				First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				entry := cfsmodel.ExpandedFolder{
					UserID:    userID,
					ZoneKind:  int(key.Kind),
					ZoneCode:  key.Code,
					OwnerCode: key.Owner,
					Path:      p,
					ClickedAt: now,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
		}

		return bumpZone(tx, userID, key, now)
	})
}

// Contract removes exactly the one entry for path; descendants keep their
// entries so re-expanding restores the previous shape.
func (s *GormExpandedFolderStor) Contract(userID int64, key ZoneKey, path string) error {
	now := time.Now()

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		err := expandedZoneScoped(tx.Where("user_id = ?", userID), key).
			Where("path = ?", path).
			Delete(&cfsmodel.ExpandedFolder{}).Error
		if err != nil {
			return err
		}

		return bumpZone(tx, userID, key, now)
	})
}

func bumpZone(tx *gorm.DB, userID int64, key ZoneKey, now time.Time) error {
	return expandedZoneScoped(tx.Model(&cfsmodel.ExpandedFolder{}).Where("user_id = ?", userID), key).
		Update("clicked_at", now).Error
}

func (s *GormExpandedFolderStor) IsExpanded(userID int64, key ZoneKey, path string) (bool, error) {
	var entry cfsmodel.ExpandedFolder

	err := expandedZoneScoped(s.db.Where("user_id = ?", userID), key).
		Where("path = ?", path).
		First(&entry).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, err
	}

	return true, nil
}

// RenamePrefix rewrites entries under oldPath for every user of the zone,
// keeping the persisted tree state aligned with the filesystem rename.
func (s *GormExpandedFolderStor) RenamePrefix(key ZoneKey, oldPath, newPath string) error {
	var entries []cfsmodel.ExpandedFolder

	err := expandedZoneScoped(s.db, key).
		Where("path = ? OR path LIKE ?", oldPath, descendantPattern(oldPath)).
		Find(&entries).Error
	if err != nil {
		return err
	}

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range entries {
			if entries[i].Path != oldPath && !isDescendant(entries[i].Path, oldPath) {
				continue
			}

			rewritten := newPath + strings.TrimPrefix(entries[i].Path, oldPath)
			err := tx.Model(&cfsmodel.ExpandedFolder{}).
				Where("id = ?", entries[i].ID).
				Update("path", rewritten).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *GormExpandedFolderStor) DeletePrefix(key ZoneKey, path string) error {
	var entries []cfsmodel.ExpandedFolder

	err := expandedZoneScoped(s.db, key).
		Where("path = ? OR path LIKE ?", path, descendantPattern(path)).
		Find(&entries).Error
	if err != nil {
		return err
	}

	var ids []int64
	for i := range entries {
		if entries[i].Path != path && !isDescendant(entries[i].Path, path) {
			continue
		}
		ids = append(ids, entries[i].ID)
	}

	if len(ids) == 0 {
		return nil
	}

	return s.db.Delete(&cfsmodel.ExpandedFolder{}, ids).Error
}

func (s *GormExpandedFolderStor) RemoveExpired(ttl time.Duration) error {
	cutoff := time.Now().Add(-ttl)

	return s.db.Where("clicked_at < ?", cutoff).
		Delete(&cfsmodel.ExpandedFolder{}).Error
}

func ancestorsOf(p string) []string {
	var ancestors []string
	for {
		i := strings.LastIndex(p, "/")
		if i < 0 {
			return ancestors
		}
		p = p[:i]
		ancestors = append(ancestors, p)
	}
}
