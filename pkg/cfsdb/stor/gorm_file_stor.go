package stor

import (
	"errors"
	"strings"

	"github.com/apex/log"
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"github.com/teachstack/coursefs/pkg/zone"
	"gorm.io/gorm"
)

type GormFileStor struct {
	db   *gorm.DB
	sink NotificationSink
}

func NewGormFileStor(db *gorm.DB, sink NotificationSink) *GormFileStor {
	return &GormFileStor{db: db, sink: sink}
}

func zoneScoped(db *gorm.DB, key ZoneKey) *gorm.DB {
	return db.Where("zone_kind = ?", int(key.Kind)).
		Where("zone_code = ?", key.Code).
		Where("owner_code = ?", key.Owner)
}

// descendantPattern builds the LIKE pattern for rows under path. LIKE
// wildcards in path can only widen the match, so every caller re-checks the
// prefix in Go before acting on a row.
func descendantPattern(path string) string {
	return path + "/%"
}

func isDescendant(candidate, path string) bool {
	return strings.HasPrefix(candidate, path+"/")
}

func (s *GormFileStor) GetByPath(key ZoneKey, path string) (*cfsmodel.FileRecord, error) {
	var file cfsmodel.FileRecord

	err := zoneScoped(s.db, key).Where("path = ?", path).First(&file).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}

	return &file, nil
}

func (s *GormFileStor) GetByID(fileID int64) (*cfsmodel.FileRecord, error) {
	var file cfsmodel.FileRecord
	if err := s.db.First(&file, fileID).Error; err != nil {
		return nil, err
	}

	return &file, nil
}

// EnsureRecord is get-or-lazily-insert: an on-disk node found without a
// mirror row (legacy data) gets one with default flags on first access.
func (s *GormFileStor) EnsureRecord(key ZoneKey, path string, ftype cfsmodel.NodeType, publisherID int64) (*cfsmodel.FileRecord, error) {
	existing, err := s.GetByPath(key, path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	newFile := &cfsmodel.FileRecord{
		ZoneKind:    int(key.Kind),
		ZoneCode:    key.Code,
		OwnerCode:   key.Owner,
		Path:        path,
		Type:        ftype,
		PublisherID: publisherID,
		Hidden:      false,
		Public:      false,
		License:     cfsmodel.LicenseAllRightsReserved,
	}

	if newFile.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	newFile.Slug = slug.Make(newFile.Name())

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(newFile).Error
	})

	return newFile, err
}

func (s *GormFileStor) SetHidden(key ZoneKey, path string, hidden bool) error {
	result := zoneScoped(s.db.Model(&cfsmodel.FileRecord{}), key).
		Where("path = ?", path).
		Update("hidden", hidden)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (s *GormFileStor) SetPublicAndLicense(key ZoneKey, path string, publisherID int64, public bool, license cfsmodel.License) error {
	result := zoneScoped(s.db.Model(&cfsmodel.FileRecord{}), key).
		Where("path = ?", path).
		Updates(map[string]interface{}{
			"publisher_id": publisherID,
			"public":       public,
			"license":      license,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (s *GormFileStor) HiddenPathsInZone(key ZoneKey) ([]string, error) {
	var paths []string

	err := zoneScoped(s.db.Model(&cfsmodel.FileRecord{}), key).
		Where("hidden = ?", true).
		Pluck("path", &paths).Error
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// IsHiddenOrUnderHiddenAncestor is the visibility rule for show-mode zones:
// a node is invisible when it, or any folder above it, is marked hidden.
func (s *GormFileStor) IsHiddenOrUnderHiddenAncestor(key ZoneKey, path string) (bool, error) {
	hidden, err := s.HiddenPathsInZone(key)
	if err != nil {
		return false, err
	}

	for _, h := range hidden {
		if path == h || isDescendant(path, h) {
			return true, nil
		}
	}

	return false, nil
}

func (s *GormFileStor) RenameNode(key ZoneKey, oldPath, newPath string) error {
	result := zoneScoped(s.db.Model(&cfsmodel.FileRecord{}), key).
		Where("path = ?", oldPath).
		Updates(map[string]interface{}{
			"path": newPath,
			"slug": slug.Make(pathBase(newPath)),
		})

	return result.Error
}

// RenameDescendants rewrites the path prefix of every record under oldPath.
func (s *GormFileStor) RenameDescendants(key ZoneKey, oldPath, newPath string) error {
	var files []cfsmodel.FileRecord

	err := zoneScoped(s.db, key).
		Where("path LIKE ?", descendantPattern(oldPath)).
		Find(&files).Error
	if err != nil {
		return err
	}

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range files {
			if !isDescendant(files[i].Path, oldPath) {
				continue
			}

			rewritten := newPath + strings.TrimPrefix(files[i].Path, oldPath)
			err := tx.Model(&cfsmodel.FileRecord{}).
				Where("id = ?", files[i].ID).
				Update("path", rewritten).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *GormFileStor) DeleteNode(key ZoneKey, path string) error {
	file, err := s.GetByPath(key, path)
	if err != nil {
		return err
	}
	if file == nil {
		return nil
	}

	s.markRemoved(file.ID)

	return s.db.Delete(&cfsmodel.FileRecord{}, file.ID).Error
}

func (s *GormFileStor) DeleteDescendants(key ZoneKey, path string) error {
	var files []cfsmodel.FileRecord

	err := zoneScoped(s.db, key).
		Where("path LIKE ?", descendantPattern(path)).
		Find(&files).Error
	if err != nil {
		return err
	}

	var ids []int64
	for i := range files {
		if !isDescendant(files[i].Path, path) {
			continue
		}
		s.markRemoved(files[i].ID)
		ids = append(ids, files[i].ID)
	}

	if len(ids) == 0 {
		return nil
	}

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Delete(&cfsmodel.FileRecord{}, ids).Error
	})
}

func (s *GormFileStor) markRemoved(fileID int64) {
	if s.sink == nil {
		return
	}

	if err := s.sink.MarkRemoved(fileID); err != nil {
		log.Errorf("Failed marking notifications removed for file %d: %s", fileID, err)
	}
}

func (s *GormFileStor) ListPublishersInSubtree(key ZoneKey, path string) ([]int64, error) {
	var files []cfsmodel.FileRecord

	err := zoneScoped(s.db, key).
		Where("path = ? OR path LIKE ?", path, descendantPattern(path)).
		Find(&files).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var publishers []int64
	for i := range files {
		if files[i].Path != path && !isDescendant(files[i].Path, path) {
			continue
		}
		if !seen[files[i].PublisherID] {
			seen[files[i].PublisherID] = true
			publishers = append(publishers, files[i].PublisherID)
		}
	}

	return publishers, nil
}

func (s *GormFileStor) ListZones() ([]ZoneKey, error) {
	var rows []struct {
		ZoneKind  int
		ZoneCode  int64
		OwnerCode int64
	}

	err := s.db.Model(&cfsmodel.FileRecord{}).
		Distinct("zone_kind", "zone_code", "owner_code").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	keys := make([]ZoneKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, ZoneKey{Kind: zone.Kind(row.ZoneKind), Code: row.ZoneCode, Owner: row.OwnerCode})
	}

	return keys, nil
}

func (s *GormFileStor) RecordView(fileID, viewerID int64) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		var view cfsmodel.FileView

		err := tx.Where("file_id = ?", fileID).
			Where("user_id = ?", viewerID).
			First(&view).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&cfsmodel.FileView{FileID: fileID, UserID: viewerID, NumViews: 1}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&view).Update("num_views", view.NumViews+1).Error
	})
}

func (s *GormFileStor) CountLoggedViews(fileID int64) (int, error) {
	return s.sumViews(fileID, "user_id <> ?")
}

func (s *GormFileStor) CountAnonymousViews(fileID int64) (int, error) {
	return s.sumViews(fileID, "user_id = ?")
}

func (s *GormFileStor) sumViews(fileID int64, userCond string) (int, error) {
	var total int64

	err := s.db.Model(&cfsmodel.FileView{}).
		Where("file_id = ?", fileID).
		Where(userCond, cfsmodel.AnonymousUserID).
		Select("COALESCE(SUM(num_views), 0)").
		Scan(&total).Error

	return int(total), err
}

func (s *GormFileStor) CountDistinctLoggedViewers(fileID int64) (int, error) {
	var total int64

	err := s.db.Model(&cfsmodel.FileView{}).
		Where("file_id = ?", fileID).
		Where("user_id <> ?", cfsmodel.AnonymousUserID).
		Distinct("user_id").
		Count(&total).Error

	return int(total), err
}

func pathBase(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}

	return p
}
