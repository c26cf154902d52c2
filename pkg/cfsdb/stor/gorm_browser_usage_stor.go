package stor

import (
	"errors"
	"time"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/quota"
	"gorm.io/gorm"
)

type GormBrowserUsageStor struct {
	db *gorm.DB
}

func NewGormBrowserUsageStor(db *gorm.DB) *GormBrowserUsageStor {
	return &GormBrowserUsageStor{db: db}
}

// SaveSnapshot upserts the denormalized usage row for a zone instance. The
// row exists purely for fast display; live measurement remains the truth.
func (s *GormBrowserUsageStor) SaveSnapshot(key ZoneKey, snapshot quota.Snapshot) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		var row cfsmodel.BrowserSize

		err := tx.Where("zone_kind = ?", int(key.Kind)).
			Where("zone_code = ?", key.Code).
			Where("owner_code = ?", key.Owner).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = cfsmodel.BrowserSize{
				ZoneKind:   int(key.Kind),
				ZoneCode:   key.Code,
				OwnerCode:  key.Owner,
				NumLevels:  snapshot.NumLevels,
				NumFolders: snapshot.NumFolders,
				NumFiles:   snapshot.NumFiles,
				TotalBytes: snapshot.TotalBytes,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&row).Updates(map[string]interface{}{
			"num_levels":  snapshot.NumLevels,
			"num_folders": snapshot.NumFolders,
			"num_files":   snapshot.NumFiles,
			"total_bytes": snapshot.TotalBytes,
		}).Error
	})
}

func (s *GormBrowserUsageStor) GetSnapshot(key ZoneKey) (*cfsmodel.BrowserSize, error) {
	var row cfsmodel.BrowserSize

	err := s.db.Where("zone_kind = ?", int(key.Kind)).
		Where("zone_code = ?", key.Code).
		Where("owner_code = ?", key.Owner).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}

	return &row, nil
}

func (s *GormBrowserUsageStor) TouchLastAccess(userID int64, key ZoneKey, t time.Time) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		var row cfsmodel.BrowserLast

		err := tx.Where("user_id = ?", userID).
			Where("zone_kind = ?", int(key.Kind)).
			Where("zone_code = ?", key.Code).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = cfsmodel.BrowserLast{
				UserID:       userID,
				ZoneKind:     int(key.Kind),
				ZoneCode:     key.Code,
				LastAccessAt: t,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&row).Update("last_access_at", t).Error
	})
}

func (s *GormBrowserUsageStor) GetLastAccess(userID int64, key ZoneKey) (time.Time, bool, error) {
	var row cfsmodel.BrowserLast

	err := s.db.Where("user_id = ?", userID).
		Where("zone_kind = ?", int(key.Kind)).
		Where("zone_code = ?", key.Code).
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, err
	}

	return row.LastAccessAt, true, nil
}
