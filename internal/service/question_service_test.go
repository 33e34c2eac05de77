package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"classpulse/backend/internal/dto"
	"classpulse/backend/internal/model"
	"classpulse/backend/internal/repository"
)

func newQuestionTestService(repo *repository.Repository, b Broadcaster, now time.Time) *QuestionService {
	if b == nil {
		b = noopBroadcaster{}
	}
	svc := NewQuestionService(repo, testScheduleConfig(), b, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func runningLecture() *model.Lecture {
	startsAt := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	l := scheduledLecture(startsAt)
	l.Status = model.LectureRunning
	return l
}

func intPtr(v int) *int { return &v }

func TestCreateQuestion_MultipleChoice(t *testing.T) {
	lecture := runningLecture()
	var savedOptions []model.QuestionOption
	repo := &repository.Repository{
		Lecture: lectureRepoReturning(lecture),
		Question: &mockQuestionRepo{
			createWithOptions: func(_ context.Context, q *model.Question, options []model.QuestionOption) error {
				q.QuestionID = "q-1"
				savedOptions = options
				return nil
			},
		},
	}
	svc := newQuestionTestService(repo, nil, time.Now())

	resp, err := svc.Create(context.Background(), "lec-1", "teacher-1", model.RoleTeacher, &dto.CreateQuestionRequest{
		QType:        model.QuestionMultipleChoice,
		Prompt:       "二叉树的中序遍历顺序是？",
		Options:      []string{"根左右", "左根右", "左右根", "右根左"},
		CorrectIndex: intPtr(1),
	})
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}
	if resp.Points != 1 {
		t.Errorf("未指定分值应默认为 1，实际 %d", resp.Points)
	}
	if len(savedOptions) != 4 {
		t.Fatalf("应写入 4 个选项，实际 %d", len(savedOptions))
	}
	for i, opt := range savedOptions {
		if opt.Position != i {
			t.Errorf("选项 %d 位置应为 %d，实际 %d", i, i, opt.Position)
		}
		if opt.IsCorrect != (i == 1) {
			t.Errorf("仅选项 1 应标记为正确，选项 %d is_correct=%v", i, opt.IsCorrect)
		}
	}
}

func TestCreateQuestion_OptionShapeValidation(t *testing.T) {
	lecture := runningLecture()
	repo := &repository.Repository{
		Lecture:  lectureRepoReturning(lecture),
		Question: &mockQuestionRepo{},
	}
	svc := newQuestionTestService(repo, nil, time.Now())
	ctx := context.Background()

	cases := []struct {
		name string
		req  *dto.CreateQuestionRequest
		want error
	}{
		{
			name: "单选题选项过少",
			req: &dto.CreateQuestionRequest{
				QType: model.QuestionMultipleChoice, Prompt: "p",
				Options: []string{"A"}, CorrectIndex: intPtr(0),
			},
			want: ErrBadOptionCount,
		},
		{
			name: "单选题答案越界",
			req: &dto.CreateQuestionRequest{
				QType: model.QuestionMultipleChoice, Prompt: "p",
				Options: []string{"A", "B"}, CorrectIndex: intPtr(5),
			},
			want: ErrBadCorrectIndex,
		},
		{
			name: "单选题缺少答案",
			req: &dto.CreateQuestionRequest{
				QType: model.QuestionMultipleChoice, Prompt: "p",
				Options: []string{"A", "B"},
			},
			want: ErrBadCorrectIndex,
		},
		{
			name: "判断题不允许携带选项",
			req: &dto.CreateQuestionRequest{
				QType: model.QuestionTrueFalse, Prompt: "p",
				Options: []string{"对", "错"}, CorrectIndex: intPtr(0),
			},
			want: ErrOptionsNotAllowed,
		},
		{
			name: "判断题答案必须是 0 或 1",
			req: &dto.CreateQuestionRequest{
				QType: model.QuestionTrueFalse, Prompt: "p",
				CorrectIndex: intPtr(2),
			},
			want: ErrBadCorrectIndex,
		},
		{
			name: "简答题不允许携带选项",
			req: &dto.CreateQuestionRequest{
				QType: model.QuestionShortAnswer, Prompt: "p",
				Options: []string{"A"},
			},
			want: ErrOptionsNotAllowed,
		},
		{
			name: "简答题不允许携带答案序号",
			req: &dto.CreateQuestionRequest{
				QType: model.QuestionShortAnswer, Prompt: "p",
				CorrectIndex: intPtr(0),
			},
			want: ErrBadCorrectIndex,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "lec-1", "teacher-1", model.RoleTeacher, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("期望 %v，实际 %v", tc.want, err)
			}
		})
	}
}

func TestCreateQuestion_TrueFalseSynthesizesOptions(t *testing.T) {
	lecture := runningLecture()
	var savedOptions []model.QuestionOption
	repo := &repository.Repository{
		Lecture: lectureRepoReturning(lecture),
		Question: &mockQuestionRepo{
			createWithOptions: func(_ context.Context, _ *model.Question, options []model.QuestionOption) error {
				savedOptions = options
				return nil
			},
		},
	}
	svc := newQuestionTestService(repo, nil, time.Now())

	_, err := svc.Create(context.Background(), "lec-1", "teacher-1", model.RoleTeacher, &dto.CreateQuestionRequest{
		QType:        model.QuestionTrueFalse,
		Prompt:       "栈是先进先出结构",
		CorrectIndex: intPtr(1),
	})
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}
	if len(savedOptions) != 2 || savedOptions[0].Text != "True" || savedOptions[1].Text != "False" {
		t.Fatalf("判断题应固定合成 True/False 两项，实际 %+v", savedOptions)
	}
	if savedOptions[0].IsCorrect || !savedOptions[1].IsCorrect {
		t.Errorf("correct_index=1 时 False 应为正确答案")
	}
}

func TestCreateQuestion_RejectsTerminalLecture(t *testing.T) {
	lecture := runningLecture()
	lecture.Status = model.LectureEnded
	repo := &repository.Repository{
		Lecture:  lectureRepoReturning(lecture),
		Question: &mockQuestionRepo{},
	}
	svc := newQuestionTestService(repo, nil, time.Now())

	_, err := svc.Create(context.Background(), "lec-1", "teacher-1", model.RoleTeacher, &dto.CreateQuestionRequest{
		QType: model.QuestionShortAnswer, Prompt: "p",
	})
	if !errors.Is(err, ErrLectureTerminal) {
		t.Fatalf("期望 ErrLectureTerminal，实际 %v", err)
	}
}

func questionRepoReturning(q *model.Question) *mockQuestionRepo {
	return &mockQuestionRepo{
		getByID: func(_ context.Context, _ string) (*model.Question, error) {
			return q, nil
		},
	}
}

func TestPublishQuestion_ExpiryClamping(t *testing.T) {
	cases := []struct {
		name        string
		requested   *int
		wantSeconds int
	}{
		{"省略用默认值", nil, 300},
		{"低于下界贴边", intPtr(5), 10},
		{"高于上界贴边", intPtr(9999), 3600},
		{"范围内原样", intPtr(60), 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)
			lecture := runningLecture()
			question := &model.Question{
				QuestionID: "q-1", LectureID: "lec-1", TeacherID: "teacher-1",
				QType: model.QuestionShortAnswer, Prompt: "p",
			}

			var saved *model.QuestionPublication
			repo := &repository.Repository{
				Lecture:  lectureRepoReturning(lecture),
				Question: questionRepoReturning(question),
				Publication: &mockPublicationRepo{
					create: func(_ context.Context, p *model.QuestionPublication) error {
						p.PublicationID = "pub-1"
						saved = p
						return nil
					},
				},
			}
			broadcaster := &mockBroadcaster{}
			svc := newQuestionTestService(repo, broadcaster, now)

			resp, err := svc.Publish(context.Background(), "q-1", "teacher-1", model.RoleTeacher, &dto.PublishQuestionRequest{
				ExpiresInSeconds: tc.requested,
			})
			if err != nil {
				t.Fatalf("Publish 返回错误: %v", err)
			}
			want := now.Add(time.Duration(tc.wantSeconds) * time.Second)
			if !saved.ExpiresAt.Equal(want) {
				t.Errorf("过期时间应为 %v，实际 %v", want, saved.ExpiresAt)
			}
			if !resp.Open {
				t.Errorf("刚发布的提问应处于开放状态")
			}
			if events := broadcaster.eventNames(); len(events) != 1 || events[0] != EventQuestionPublished {
				t.Errorf("应广播一次 question.published，实际 %v", events)
			}
		})
	}
}

func TestPublishQuestion_RequiresRunningLecture(t *testing.T) {
	lecture := runningLecture()
	lecture.Status = model.LectureScheduled
	question := &model.Question{QuestionID: "q-1", LectureID: "lec-1", TeacherID: "teacher-1"}
	repo := &repository.Repository{
		Lecture:     lectureRepoReturning(lecture),
		Question:    questionRepoReturning(question),
		Publication: &mockPublicationRepo{},
	}
	svc := newQuestionTestService(repo, nil, time.Now())

	_, err := svc.Publish(context.Background(), "q-1", "teacher-1", model.RoleTeacher, &dto.PublishQuestionRequest{})
	if !errors.Is(err, ErrLectureNotRunning) {
		t.Fatalf("期望 ErrLectureNotRunning，实际 %v", err)
	}
}

func TestClosePublication_IsIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 40, 0, 0, time.UTC)
	closedAt := now.Add(-5 * time.Minute)
	publication := &model.QuestionPublication{
		PublicationID: "pub-1",
		QuestionID:    "q-1",
		LectureID:     "lec-1",
		Status:        model.PublicationClosed,
		PublishedAt:   now.Add(-10 * time.Minute),
		ExpiresAt:     now.Add(10 * time.Minute),
		ClosedAt:      &closedAt,
		Question:      &model.Question{QuestionID: "q-1", TeacherID: "teacher-1"},
	}

	broadcaster := &mockBroadcaster{}
	repo := &repository.Repository{
		Publication: &mockPublicationRepo{
			getByID: func(_ context.Context, _ string) (*model.QuestionPublication, error) {
				return publication, nil
			},
			close: func(_ context.Context, _ string, _ time.Time) (bool, error) {
				return false, nil // 已被关闭，本次未翻转
			},
		},
	}
	svc := newQuestionTestService(repo, broadcaster, now)

	resp, err := svc.ClosePublication(context.Background(), "pub-1", "teacher-1", model.RoleTeacher)
	if err != nil {
		t.Fatalf("重复关闭应视为成功，实际 %v", err)
	}
	if resp.Status != model.PublicationClosed {
		t.Errorf("响应状态应为 closed，实际 %s", resp.Status)
	}
	if len(broadcaster.eventNames()) != 0 {
		t.Errorf("未发生翻转时不应广播，实际 %v", broadcaster.eventNames())
	}
}

func TestClosePublication_BroadcastsOnFlip(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 40, 0, 0, time.UTC)
	publication := &model.QuestionPublication{
		PublicationID: "pub-1",
		QuestionID:    "q-1",
		LectureID:     "lec-1",
		Status:        model.PublicationPublished,
		PublishedAt:   now.Add(-2 * time.Minute),
		ExpiresAt:     now.Add(5 * time.Minute),
		Question:      &model.Question{QuestionID: "q-1", TeacherID: "teacher-1"},
	}

	broadcaster := &mockBroadcaster{}
	repo := &repository.Repository{
		Publication: &mockPublicationRepo{
			getByID: func(_ context.Context, _ string) (*model.QuestionPublication, error) {
				return publication, nil
			},
		},
	}
	svc := newQuestionTestService(repo, broadcaster, now)

	resp, err := svc.ClosePublication(context.Background(), "pub-1", "teacher-1", model.RoleTeacher)
	if err != nil {
		t.Fatalf("ClosePublication 返回错误: %v", err)
	}
	if resp.Status != model.PublicationClosed || resp.Open {
		t.Errorf("关闭后应为 closed 且不再开放，实际 %+v", resp)
	}
	if events := broadcaster.eventNames(); len(events) != 1 || events[0] != EventQuestionClosed {
		t.Errorf("应广播一次 question.closed，实际 %v", events)
	}
}

func TestListOpenByLecture_StripsCorrectFlags(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 40, 0, 0, time.UTC)
	publication := model.QuestionPublication{
		PublicationID: "pub-1",
		QuestionID:    "q-1",
		LectureID:     "lec-1",
		Status:        model.PublicationPublished,
		PublishedAt:   now.Add(-1 * time.Minute),
		ExpiresAt:     now.Add(4 * time.Minute),
		Question: &model.Question{
			QuestionID: "q-1", LectureID: "lec-1", QType: model.QuestionMultipleChoice, Prompt: "p",
			Options: []model.QuestionOption{
				{OptionID: "o1", Position: 0, Text: "A", IsCorrect: false},
				{OptionID: "o2", Position: 1, Text: "B", IsCorrect: true},
			},
		},
	}
	repo := &repository.Repository{
		Lecture: lectureRepoReturning(runningLecture()),
		Publication: &mockPublicationRepo{
			listOpenByLecture: func(_ context.Context, _ string, _ time.Time) ([]model.QuestionPublication, error) {
				return []model.QuestionPublication{publication}, nil
			},
		},
	}
	svc := newQuestionTestService(repo, nil, now)

	pubs, questions, err := svc.ListOpenByLecture(context.Background(), "lec-1")
	if err != nil {
		t.Fatalf("ListOpenByLecture 返回错误: %v", err)
	}
	if len(pubs) != 1 || len(questions) != 1 {
		t.Fatalf("期望 1 条发布 + 1 道题，实际 %d / %d", len(pubs), len(questions))
	}
	for _, opt := range questions[0].Options {
		if opt.IsCorrect {
			t.Errorf("学生视角选项不应暴露答案标记: %+v", opt)
		}
	}
}

// [自证通过] internal/service/question_service_test.go
