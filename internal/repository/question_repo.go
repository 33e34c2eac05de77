package repository

import (
	"context"

	"gorm.io/gorm"

	"classpulse/backend/internal/model"
)

// QuestionRepository 题目数据访问接口
type QuestionRepository interface {
	// CreateWithOptions 在单个事务中插入题目及其选项
	CreateWithOptions(ctx context.Context, question *model.Question, options []model.QuestionOption) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	ListByLecture(ctx context.Context, lectureID string) ([]model.Question, error)
}

type questionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo 创建 QuestionRepository 实例
func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) CreateWithOptions(ctx context.Context, question *model.Question, options []model.QuestionOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		if len(options) == 0 {
			return nil
		}
		for i := range options {
			options[i].QuestionID = question.QuestionID
		}
		return tx.Create(&options).Error
	})
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("question_id = ?", id).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) ListByLecture(ctx context.Context, lectureID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("lecture_id = ?", lectureID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}
