package stor

import (
	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"gorm.io/gorm"
)

type GormUserStor struct {
	db *gorm.DB
}

func NewGormUserStor(db *gorm.DB) *GormUserStor {
	return &GormUserStor{db: db}
}

func (s *GormUserStor) CreateUser(user *cfsmodel.User) (*cfsmodel.User, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})

	return user, err
}

func (s *GormUserStor) GetUserByID(userID int64) (*cfsmodel.User, error) {
	var user cfsmodel.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByAPIToken(apitoken string) (*cfsmodel.User, error) {
	var user cfsmodel.User
	if err := s.db.Where("api_token = ?", apitoken).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
