package repository

import (
	"strconv"

	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetBySID(sid string) (*models.User, error) {
	var user models.User
	err := r.db.Where("sid = ?", sid).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// NextSID returns the next free subscriber id. Ids are numeric strings and
// grow monotonically from FirstSID.
func (r *GormUserRepository) NextSID() (string, error) {
	var last models.User
	err := r.db.Unscoped().Order("id DESC").First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.FirstSID, nil
		}
		return "", err
	}
	n, convErr := strconv.Atoi(last.SID)
	if convErr != nil {
		return models.FirstSID, nil
	}
	return strconv.Itoa(n + 1), nil
}

func (r *GormUserRepository) SIDExists(sid string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("sid = ?", sid).Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

func (r *GormUserRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

func (r *GormUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	like := "%" + query + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ? OR sid LIKE ?", like, like, like).
		Limit(50).Find(&users).Error
	return users, err
}
