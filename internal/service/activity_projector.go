package service

import (
	"time"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/pkg/logger"
	"schoolhub_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	projectorBuffer  = 256
	projectorRetries = 3
)

// ActivityProjector 消费考试事件并把头部字段镜像进 activities 表。
// 投影失败只记日志并在有限次数内重试，绝不反向影响考试事务
type ActivityProjector struct {
	Repo     *repository.ActivityRepository
	Notifier *NotificationService

	events chan ExamEvent
	quit   chan struct{}
	done   chan struct{}
}

func NewActivityProjector(repo *repository.ActivityRepository, notifier *NotificationService) *ActivityProjector {
	return &ActivityProjector{
		Repo:     repo,
		Notifier: notifier,
		events:   make(chan ExamEvent, projectorBuffer),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *ActivityProjector) Publish(ev ExamEvent) {
	select {
	case p.events <- ev:
	case <-p.quit:
	}
}

func (p *ActivityProjector) Run() {
	defer close(p.done)
	for {
		select {
		case ev := <-p.events:
			p.applyWithRetry(ev)
		case <-p.quit:
			// 排空剩余事件再退出
			for {
				select {
				case ev := <-p.events:
					p.applyWithRetry(ev)
				default:
					return
				}
			}
		}
	}
}

func (p *ActivityProjector) Stop() {
	close(p.quit)
	<-p.done
}

func (p *ActivityProjector) applyWithRetry(ev ExamEvent) {
	var err error
	for attempt := 1; attempt <= projectorRetries; attempt++ {
		if err = p.Apply(ev); err == nil {
			monitoring.ProjectionLag.Observe(time.Since(ev.OccurredAt).Seconds())
			return
		}
		logger.Log.Error("activity projection failed",
			zap.Uint("examId", ev.ExamID),
			zap.String("event", string(ev.Type)),
			zap.Int("attempt", attempt),
			zap.Error(err))
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
}

// Apply 同步应用一条事件，幂等：以 exam_id 为键 upsert，重放不会产生重复行。
// 测试和迁移路径直接调用它获得确定性收敛
func (p *ActivityProjector) Apply(ev ExamEvent) error {
	switch ev.Type {
	case ExamCreated, ExamUpdated, ExamRestored:
		examID := ev.ExamID
		activity := &model.Activity{
			TeamID:      ev.TeamID,
			TeacherID:   ev.TeacherID,
			ExamID:      &examID,
			Title:       ev.Title,
			Description: ev.Description,
			TotalPoints: ev.TotalPoints,
			Status:      ev.Status,
			Deadline:    ev.Deadline,
		}
		if err := p.Repo.UpsertByExamID(activity); err != nil {
			return err
		}
	case ExamDeleted, ExamForceDeleted:
		if err := p.Repo.DeleteByExamID(ev.ExamID); err != nil {
			return err
		}
	default:
		logger.Log.Warn("unknown exam event ignored", zap.String("event", string(ev.Type)))
		return nil
	}

	p.Notifier.Notify(ev.TeamID, "activity_synced", ev)
	return nil
}
