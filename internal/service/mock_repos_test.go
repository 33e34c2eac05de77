package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"classpulse/backend/internal/model"
)

// 手写 mock：函数字段未设置时返回温和的默认值，
// 让每个测试只需要关心自己覆盖的调用

// ── LectureRepository ──

type mockLectureRepo struct {
	getByID                      func(ctx context.Context, id string) (*model.Lecture, error)
	listByAssignment             func(ctx context.Context, assignmentID string) ([]model.Lecture, error)
	listByTeacherBetween         func(ctx context.Context, teacherID string, from, to time.Time) ([]model.Lecture, error)
	countOverlappingForTeacher   func(ctx context.Context, teacherID string, start, end time.Time) (int64, error)
	countOverlappingForSection   func(ctx context.Context, sectionID string, start, end time.Time) (int64, error)
	countByAssignmentAndStatuses func(ctx context.Context, assignmentID string, statuses []string) (int64, error)
	transitionStatus             func(ctx context.Context, lectureID, from, to, updatedBy string) error
	endWithAttendance            func(ctx context.Context, lectureID string, endedAt time.Time, updatedBy string, records []model.AttendanceRecord) error
}

func (m *mockLectureRepo) GetByID(ctx context.Context, id string) (*model.Lecture, error) {
	if m.getByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByID(ctx, id)
}

func (m *mockLectureRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.Lecture, error) {
	if m.listByAssignment == nil {
		return nil, nil
	}
	return m.listByAssignment(ctx, assignmentID)
}

func (m *mockLectureRepo) ListByTeacherBetween(ctx context.Context, teacherID string, from, to time.Time) ([]model.Lecture, error) {
	if m.listByTeacherBetween == nil {
		return nil, nil
	}
	return m.listByTeacherBetween(ctx, teacherID, from, to)
}

func (m *mockLectureRepo) CountOverlappingForTeacher(ctx context.Context, teacherID string, start, end time.Time) (int64, error) {
	if m.countOverlappingForTeacher == nil {
		return 0, nil
	}
	return m.countOverlappingForTeacher(ctx, teacherID, start, end)
}

func (m *mockLectureRepo) CountOverlappingForSection(ctx context.Context, sectionID string, start, end time.Time) (int64, error) {
	if m.countOverlappingForSection == nil {
		return 0, nil
	}
	return m.countOverlappingForSection(ctx, sectionID, start, end)
}

func (m *mockLectureRepo) CountByAssignmentAndStatuses(ctx context.Context, assignmentID string, statuses []string) (int64, error) {
	if m.countByAssignmentAndStatuses == nil {
		return 0, nil
	}
	return m.countByAssignmentAndStatuses(ctx, assignmentID, statuses)
}

func (m *mockLectureRepo) TransitionStatus(ctx context.Context, lectureID, from, to, updatedBy string) error {
	if m.transitionStatus == nil {
		return nil
	}
	return m.transitionStatus(ctx, lectureID, from, to, updatedBy)
}

func (m *mockLectureRepo) EndWithAttendance(ctx context.Context, lectureID string, endedAt time.Time, updatedBy string, records []model.AttendanceRecord) error {
	if m.endWithAttendance == nil {
		return nil
	}
	return m.endWithAttendance(ctx, lectureID, endedAt, updatedBy, records)
}

// ── AssignmentRepository ──

type mockAssignmentRepo struct {
	createWithLectures func(ctx context.Context, assignment *model.CourseAssignment, lectures []model.Lecture) error
	getByID            func(ctx context.Context, id string) (*model.CourseAssignment, error)
	getByTriple        func(ctx context.Context, sectionID, courseID, teacherID string) (*model.CourseAssignment, error)
	list               func(ctx context.Context, teacherID, sectionID string, offset, limit int) ([]model.CourseAssignment, int64, error)
	update             func(ctx context.Context, assignment *model.CourseAssignment) error
	deleteCascade      func(ctx context.Context, id string) error
	upsertLectures     func(ctx context.Context, lectures []model.Lecture) error
}

func (m *mockAssignmentRepo) CreateWithLectures(ctx context.Context, assignment *model.CourseAssignment, lectures []model.Lecture) error {
	if m.createWithLectures == nil {
		return nil
	}
	return m.createWithLectures(ctx, assignment, lectures)
}

func (m *mockAssignmentRepo) GetByID(ctx context.Context, id string) (*model.CourseAssignment, error) {
	if m.getByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByID(ctx, id)
}

func (m *mockAssignmentRepo) GetByTriple(ctx context.Context, sectionID, courseID, teacherID string) (*model.CourseAssignment, error) {
	if m.getByTriple == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByTriple(ctx, sectionID, courseID, teacherID)
}

func (m *mockAssignmentRepo) List(ctx context.Context, teacherID, sectionID string, offset, limit int) ([]model.CourseAssignment, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, teacherID, sectionID, offset, limit)
}

func (m *mockAssignmentRepo) Update(ctx context.Context, assignment *model.CourseAssignment) error {
	if m.update == nil {
		return nil
	}
	return m.update(ctx, assignment)
}

func (m *mockAssignmentRepo) DeleteCascade(ctx context.Context, id string) error {
	if m.deleteCascade == nil {
		return nil
	}
	return m.deleteCascade(ctx, id)
}

func (m *mockAssignmentRepo) UpsertLectures(ctx context.Context, lectures []model.Lecture) error {
	if m.upsertLectures == nil {
		return nil
	}
	return m.upsertLectures(ctx, lectures)
}

// ── UserRepository ──

type mockUserRepo struct {
	create                func(ctx context.Context, user *model.User) error
	getByID               func(ctx context.Context, id string) (*model.User, error)
	getByEmail            func(ctx context.Context, email string) (*model.User, error)
	list                  func(ctx context.Context, role, sectionID string, offset, limit int) ([]model.User, int64, error)
	listStudentsBySection func(ctx context.Context, sectionID string) ([]model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmail == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByEmail(ctx, email)
}

func (m *mockUserRepo) List(ctx context.Context, role, sectionID string, offset, limit int) ([]model.User, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, role, sectionID, offset, limit)
}

func (m *mockUserRepo) ListStudentsBySection(ctx context.Context, sectionID string) ([]model.User, error) {
	if m.listStudentsBySection == nil {
		return nil, nil
	}
	return m.listStudentsBySection(ctx, sectionID)
}

// ── SectionRepository ──

type mockSectionRepo struct {
	create  func(ctx context.Context, section *model.Section) error
	getByID func(ctx context.Context, id string) (*model.Section, error)
	list    func(ctx context.Context) ([]model.Section, error)
}

func (m *mockSectionRepo) Create(ctx context.Context, section *model.Section) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, section)
}

func (m *mockSectionRepo) GetByID(ctx context.Context, id string) (*model.Section, error) {
	if m.getByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByID(ctx, id)
}

func (m *mockSectionRepo) List(ctx context.Context) ([]model.Section, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}

// ── CourseRepository ──

type mockCourseRepo struct {
	create  func(ctx context.Context, course *model.Course) error
	getByID func(ctx context.Context, id string) (*model.Course, error)
	list    func(ctx context.Context) ([]model.Course, error)
}

func (m *mockCourseRepo) Create(ctx context.Context, course *model.Course) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, course)
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	if m.getByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByID(ctx, id)
}

func (m *mockCourseRepo) List(ctx context.Context) ([]model.Course, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}

// ── QuestionRepository ──

type mockQuestionRepo struct {
	createWithOptions func(ctx context.Context, question *model.Question, options []model.QuestionOption) error
	getByID           func(ctx context.Context, id string) (*model.Question, error)
	listByLecture     func(ctx context.Context, lectureID string) ([]model.Question, error)
}

func (m *mockQuestionRepo) CreateWithOptions(ctx context.Context, question *model.Question, options []model.QuestionOption) error {
	if m.createWithOptions == nil {
		return nil
	}
	return m.createWithOptions(ctx, question, options)
}

func (m *mockQuestionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	if m.getByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByID(ctx, id)
}

func (m *mockQuestionRepo) ListByLecture(ctx context.Context, lectureID string) ([]model.Question, error) {
	if m.listByLecture == nil {
		return nil, nil
	}
	return m.listByLecture(ctx, lectureID)
}

// ── PublicationRepository ──

type mockPublicationRepo struct {
	create            func(ctx context.Context, publication *model.QuestionPublication) error
	getByID           func(ctx context.Context, id string) (*model.QuestionPublication, error)
	listByLecture     func(ctx context.Context, lectureID string) ([]model.QuestionPublication, error)
	listOpenByLecture func(ctx context.Context, lectureID string, now time.Time) ([]model.QuestionPublication, error)
	close             func(ctx context.Context, id string, closedAt time.Time) (bool, error)
}

func (m *mockPublicationRepo) Create(ctx context.Context, publication *model.QuestionPublication) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, publication)
}

func (m *mockPublicationRepo) GetByID(ctx context.Context, id string) (*model.QuestionPublication, error) {
	if m.getByID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.getByID(ctx, id)
}

func (m *mockPublicationRepo) ListByLecture(ctx context.Context, lectureID string) ([]model.QuestionPublication, error) {
	if m.listByLecture == nil {
		return nil, nil
	}
	return m.listByLecture(ctx, lectureID)
}

func (m *mockPublicationRepo) ListOpenByLecture(ctx context.Context, lectureID string, now time.Time) ([]model.QuestionPublication, error) {
	if m.listOpenByLecture == nil {
		return nil, nil
	}
	return m.listOpenByLecture(ctx, lectureID, now)
}

func (m *mockPublicationRepo) Close(ctx context.Context, id string, closedAt time.Time) (bool, error) {
	if m.close == nil {
		return true, nil
	}
	return m.close(ctx, id, closedAt)
}

// ── HeartbeatRepository ──

type mockHeartbeatRepo struct {
	touch         func(ctx context.Context, lectureID, studentID string, seenAt time.Time) (*model.LectureHeartbeat, error)
	listByLecture func(ctx context.Context, lectureID string) ([]model.LectureHeartbeat, error)
}

func (m *mockHeartbeatRepo) Touch(ctx context.Context, lectureID, studentID string, seenAt time.Time) (*model.LectureHeartbeat, error) {
	if m.touch == nil {
		return &model.LectureHeartbeat{
			LectureID:   lectureID,
			StudentID:   studentID,
			FirstSeenAt: seenAt,
			LastSeenAt:  seenAt,
			PingCount:   1,
		}, nil
	}
	return m.touch(ctx, lectureID, studentID, seenAt)
}

func (m *mockHeartbeatRepo) ListByLecture(ctx context.Context, lectureID string) ([]model.LectureHeartbeat, error) {
	if m.listByLecture == nil {
		return nil, nil
	}
	return m.listByLecture(ctx, lectureID)
}

// ── AttendanceRepository ──

type mockAttendanceRepo struct {
	listByLecture  func(ctx context.Context, lectureID string) ([]model.AttendanceRecord, error)
	countByLecture func(ctx context.Context, lectureID string) (int64, error)
}

func (m *mockAttendanceRepo) ListByLecture(ctx context.Context, lectureID string) ([]model.AttendanceRecord, error) {
	if m.listByLecture == nil {
		return nil, nil
	}
	return m.listByLecture(ctx, lectureID)
}

func (m *mockAttendanceRepo) CountByLecture(ctx context.Context, lectureID string) (int64, error) {
	if m.countByLecture == nil {
		return 0, nil
	}
	return m.countByLecture(ctx, lectureID)
}

// ── Broadcaster ──

type recordedEvent struct {
	LectureID string
	Event     string
	Payload   interface{}
}

type mockBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockBroadcaster) PublishLectureEvent(_ context.Context, lectureID, event string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{LectureID: lectureID, Event: event, Payload: payload})
	return nil
}

func (m *mockBroadcaster) eventNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.events))
	for _, e := range m.events {
		names = append(names, e.Event)
	}
	return names
}

// [自证通过] internal/service/mock_repos_test.go
