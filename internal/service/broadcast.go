package service

import "context"

// ── 课堂实时事件 ──

const (
	EventQuestionPublished = "question.published"
	EventQuestionClosed    = "question.closed"
	EventLectureEnded      = "lecture.ended"
)

// Broadcaster 课堂事件广播接口（Redis Pub/Sub 实现）
// 广播是 fire-and-forget：失败只记日志，业务操作不回滚
type Broadcaster interface {
	PublishLectureEvent(ctx context.Context, lectureID, event string, payload interface{}) error
}

// noopBroadcaster Redis 不可用时的降级实现
type noopBroadcaster struct{}

func (noopBroadcaster) PublishLectureEvent(_ context.Context, _, _ string, _ interface{}) error {
	return nil
}
