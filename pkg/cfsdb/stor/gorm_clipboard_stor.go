package stor

import (
	"errors"
	"time"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"gorm.io/gorm"
)

type GormClipboardStor struct {
	db *gorm.DB
}

func NewGormClipboardStor(db *gorm.DB) *GormClipboardStor {
	return &GormClipboardStor{db: db}
}

func (s *GormClipboardStor) GetForUser(userID int64) (*cfsmodel.ClipboardEntry, error) {
	var entry cfsmodel.ClipboardEntry

	err := s.db.Where("user_id = ?", userID).First(&entry).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}

	return &entry, nil
}

// Set replaces whatever the user currently holds. Overwrite semantics are
// what keeps the clipboard single-slot.
func (s *GormClipboardStor) Set(entry *cfsmodel.ClipboardEntry) error {
	if entry.CopiedAt.IsZero() {
		entry.CopiedAt = time.Now()
	}

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", entry.UserID).
			Delete(&cfsmodel.ClipboardEntry{}).Error
		if err != nil {
			return err
		}

		return tx.Create(entry).Error
	})
}

func (s *GormClipboardStor) Clear(userID int64) error {
	return s.db.Where("user_id = ?", userID).
		Delete(&cfsmodel.ClipboardEntry{}).Error
}

// InvalidateForZone conservatively discards every clipboard entry pointing
// into the zone; it does not try to work out whether the specific path was
// affected.
func (s *GormClipboardStor) InvalidateForZone(key ZoneKey) error {
	return s.db.Where("zone_kind = ?", int(key.Kind)).
		Where("zone_code = ?", key.Code).
		Where("owner_code = ?", key.Owner).
		Delete(&cfsmodel.ClipboardEntry{}).Error
}

func (s *GormClipboardStor) SweepExpired(ttl time.Duration) error {
	cutoff := time.Now().Add(-ttl)

	return s.db.Where("copied_at < ?", cutoff).
		Delete(&cfsmodel.ClipboardEntry{}).Error
}
