package repository

import (
	"context"

	"gorm.io/gorm"

	"classpulse/backend/internal/model"
)

// AttendanceRepository 签到结果数据访问接口
// 写入发生在课次结束事务内（见 LectureRepository.EndWithAttendance），此处只读
type AttendanceRepository interface {
	ListByLecture(ctx context.Context, lectureID string) ([]model.AttendanceRecord, error)
	CountByLecture(ctx context.Context, lectureID string) (int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) ListByLecture(ctx context.Context, lectureID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("lecture_id = ?", lectureID).
		Order("status ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) CountByLecture(ctx context.Context, lectureID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("lecture_id = ?", lectureID).
		Count(&count).Error
	return count, err
}
