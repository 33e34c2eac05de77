package repository

import (
	"context"

	"gorm.io/gorm"

	"classpulse/backend/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, role, sectionID string, offset, limit int) ([]model.User, int64, error)
	ListStudentsBySection(ctx context.Context, sectionID string) ([]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Section").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Section").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, role, sectionID string, offset, limit int) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if sectionID != "" {
		q = q.Where("section_id = ?", sectionID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := q.Preload("Section").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) ListStudentsBySection(ctx context.Context, sectionID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("section_id = ? AND role = ?", sectionID, model.RoleStudent).
		Order("name ASC").
		Find(&users).Error
	return users, err
}
