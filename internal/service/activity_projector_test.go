package service

import (
	"testing"
	"time"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
)

func newProjector(t *testing.T) (*ActivityProjector, *repository.ActivityRepository) {
	t.Helper()
	repo := repository.NewActivityRepository(newTestDB(t))
	return NewActivityProjector(repo, nil), repo
}

func examEvent(t ExamEventType, examID uint, title string, total int) ExamEvent {
	return ExamEvent{
		Type:        t,
		ExamID:      examID,
		TeamID:      1,
		TeacherID:   2,
		Title:       title,
		TotalPoints: total,
		Status:      model.ExamPublished,
		OccurredAt:  time.Now(),
	}
}

func countActivities(t *testing.T, repo *repository.ActivityRepository) int64 {
	t.Helper()
	var n int64
	if err := repo.DB.Model(&model.Activity{}).Count(&n).Error; err != nil {
		t.Fatalf("count activities: %v", err)
	}
	return n
}

func TestApplyCreatesActivityRow(t *testing.T) {
	p, repo := newProjector(t)

	if err := p.Apply(examEvent(ExamCreated, 7, "期中考试", 40)); err != nil {
		t.Fatalf("Apply() err = %v", err)
	}

	a, err := repo.FindByExamID(7)
	if err != nil {
		t.Fatalf("FindByExamID() err = %v", err)
	}
	if a.Title != "期中考试" || a.TotalPoints != 40 || a.TeamID != 1 {
		t.Errorf("projected row = %+v", a)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	p, repo := newProjector(t)

	ev := examEvent(ExamCreated, 7, "期中考试", 40)
	if err := p.Apply(ev); err != nil {
		t.Fatalf("Apply() err = %v", err)
	}
	// 同一事件重放，exam_id 唯一键保证不会长出第二行
	if err := p.Apply(ev); err != nil {
		t.Fatalf("Apply() replay err = %v", err)
	}
	if n := countActivities(t, repo); n != 1 {
		t.Errorf("activities = %d, want 1", n)
	}
}

func TestApplyUpdateOverwritesMirror(t *testing.T) {
	p, repo := newProjector(t)

	if err := p.Apply(examEvent(ExamCreated, 7, "期中考试", 40)); err != nil {
		t.Fatalf("Apply() err = %v", err)
	}
	if err := p.Apply(examEvent(ExamUpdated, 7, "期中考试(修订)", 45)); err != nil {
		t.Fatalf("Apply() update err = %v", err)
	}

	a, err := repo.FindByExamID(7)
	if err != nil {
		t.Fatalf("FindByExamID() err = %v", err)
	}
	if a.Title != "期中考试(修订)" || a.TotalPoints != 45 {
		t.Errorf("mirror not updated: %+v", a)
	}
	if n := countActivities(t, repo); n != 1 {
		t.Errorf("activities = %d, want 1", n)
	}
}

func TestApplyDeleteRemovesRow(t *testing.T) {
	p, repo := newProjector(t)

	if err := p.Apply(examEvent(ExamCreated, 7, "期中考试", 40)); err != nil {
		t.Fatalf("Apply() err = %v", err)
	}
	if err := p.Apply(examEvent(ExamDeleted, 7, "期中考试", 40)); err != nil {
		t.Fatalf("Apply() delete err = %v", err)
	}
	if n := countActivities(t, repo); n != 0 {
		t.Errorf("activities = %d, want 0", n)
	}

	// 删除后恢复等同重建镜像
	if err := p.Apply(examEvent(ExamRestored, 7, "期中考试", 40)); err != nil {
		t.Fatalf("Apply() restore err = %v", err)
	}
	if n := countActivities(t, repo); n != 1 {
		t.Errorf("activities after restore = %d, want 1", n)
	}
}

func TestProjectorDrainsQueueOnStop(t *testing.T) {
	p, repo := newProjector(t)

	go p.Run()
	for i := uint(1); i <= 5; i++ {
		p.Publish(examEvent(ExamCreated, i, "考试", 10))
	}
	p.Stop()

	if n := countActivities(t, repo); n != 5 {
		t.Errorf("activities = %d, want 5", n)
	}
}
