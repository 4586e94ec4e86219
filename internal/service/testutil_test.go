package service

import (
	"fmt"
	"strings"
	"testing"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一份独立的内存库，cache=shared 保证连接池内共享同一实例
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func actor(userID, teamID uint, role model.TeamRole) *model.ActorContext {
	return &model.ActorContext{UserID: userID, TeamID: teamID, Role: role}
}

// recordingPublisher 收集考试事件，替代异步投影器做确定性断言
type recordingPublisher struct {
	events []ExamEvent
}

func (p *recordingPublisher) Publish(ev ExamEvent) {
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) last() *ExamEvent {
	if len(p.events) == 0 {
		return nil
	}
	return &p.events[len(p.events)-1]
}
