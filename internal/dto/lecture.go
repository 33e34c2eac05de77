package dto

// ── 课次模块 DTO ──

// LectureResponse 课次响应
type LectureResponse struct {
	ID           string        `json:"id"`
	AssignmentID string        `json:"assignment_id"`
	SequenceNo   int           `json:"sequence_no"`
	StartsAt     string        `json:"starts_at"`
	EndsAt       string        `json:"ends_at"`
	Status       string        `json:"status"`
	EndedAt      *string       `json:"ended_at,omitempty"`
	Section      *SectionBrief `json:"section,omitempty"`
	Course       *CourseBrief  `json:"course,omitempty"`
	Teacher      *UserBrief    `json:"teacher,omitempty"`
}

// LiveStudent 在堂学生实时状态
type LiveStudent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FirstSeenAt string `json:"first_seen_at"`
	LastSeenAt  string `json:"last_seen_at"`
	PingCount   int    `json:"ping_count"`
	Online      bool   `json:"online"` // 末次心跳落在在线窗口内
}

// LiveSnapshotResponse 课堂实时快照响应
type LiveSnapshotResponse struct {
	Lecture          LectureResponse       `json:"lecture"`
	OnlineCount      int                   `json:"online_count"`
	Students         []LiveStudent         `json:"students"`
	OpenPublications []PublicationResponse `json:"open_publications"`
}

// AttendanceRecordResponse 签到结果响应
type AttendanceRecordResponse struct {
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name,omitempty"`
	Status          string `json:"status"`
	MinutesAttended int    `json:"minutes_attended"`
	FinalizedAt     string `json:"finalized_at"`
}

// HeartbeatResponse 心跳上报响应
type HeartbeatResponse struct {
	LectureID  string `json:"lecture_id"`
	LastSeenAt string `json:"last_seen_at"`
	PingCount  int    `json:"ping_count"`
}
