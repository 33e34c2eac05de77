package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classpulse/backend/internal/model"
)

// HeartbeatRepository 心跳数据访问接口
type HeartbeatRepository interface {
	// Touch 按 (lecture_id, student_id) upsert：首次插入，后续刷新末见时间并累加次数
	Touch(ctx context.Context, lectureID, studentID string, seenAt time.Time) (*model.LectureHeartbeat, error)
	ListByLecture(ctx context.Context, lectureID string) ([]model.LectureHeartbeat, error)
}

type heartbeatRepo struct {
	db *gorm.DB
}

// NewHeartbeatRepo 创建 HeartbeatRepository 实例
func NewHeartbeatRepo(db *gorm.DB) HeartbeatRepository {
	return &heartbeatRepo{db: db}
}

func (r *heartbeatRepo) Touch(ctx context.Context, lectureID, studentID string, seenAt time.Time) (*model.LectureHeartbeat, error) {
	hb := model.LectureHeartbeat{
		LectureID:   lectureID,
		StudentID:   studentID,
		FirstSeenAt: seenAt,
		LastSeenAt:  seenAt,
		PingCount:   1,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "lecture_id"}, {Name: "student_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_seen_at": seenAt,
				"ping_count":   gorm.Expr("lecture_heartbeats.ping_count + 1"),
			}),
		}).
		Create(&hb).Error
	if err != nil {
		return nil, err
	}

	// upsert 后重读以获得累计值
	var current model.LectureHeartbeat
	err = r.db.WithContext(ctx).
		Where("lecture_id = ? AND student_id = ?", lectureID, studentID).
		First(&current).Error
	if err != nil {
		return nil, err
	}
	return &current, nil
}

func (r *heartbeatRepo) ListByLecture(ctx context.Context, lectureID string) ([]model.LectureHeartbeat, error) {
	var heartbeats []model.LectureHeartbeat
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("lecture_id = ?", lectureID).
		Order("first_seen_at ASC").
		Find(&heartbeats).Error
	return heartbeats, err
}
