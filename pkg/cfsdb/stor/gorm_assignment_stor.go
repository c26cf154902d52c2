package stor

import (
	"errors"
	"time"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"gorm.io/gorm"
)

type GormAssignmentStor struct {
	db *gorm.DB
}

func NewGormAssignmentStor(db *gorm.DB) *GormAssignmentStor {
	return &GormAssignmentStor{db: db}
}

func (s *GormAssignmentStor) CreateAssignment(assignment *cfsmodel.Assignment) (*cfsmodel.Assignment, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(assignment).Error
	})

	return assignment, err
}

// ActiveAssignmentFolders returns submission folder names to materialize in
// a user's assignments zone: non-hidden, currently open, non-empty folder
// name, group restriction satisfied.
func (s *GormAssignmentStor) ActiveAssignmentFolders(courseID int64, ownerGroupIDs []int64) ([]string, error) {
	var assignments []cfsmodel.Assignment

	err := s.db.Where("course_id = ?", courseID).
		Where("hidden = ?", false).
		Where("folder_name <> ''").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var folders []string
	for _, a := range assignments {
		if !a.IsOpenAt(now) {
			continue
		}
		if !a.AvailableTo(ownerGroupIDs) {
			continue
		}
		folders = append(folders, a.FolderName)
	}

	return folders, nil
}

func (s *GormAssignmentStor) GetAssignmentByFolder(courseID int64, folder string) (*cfsmodel.Assignment, error) {
	var assignment cfsmodel.Assignment

	err := s.db.Where("course_id = ?", courseID).
		Where("folder_name = ?", folder).
		First(&assignment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}

	return &assignment, nil
}
