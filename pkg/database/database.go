package database

import (
	"fmt"
	"log"

	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 独立出来供 main 的 -migrate-only 模式和测试库复用
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Team{},
		&model.TeamMembership{},
		&model.ParentStudentLink{},
		&model.Exam{},
		&model.Question{},
		&model.ExamQuestion{},
		&model.Activity{},
		&model.Submission{},
		&model.AttendanceSession{},
		&model.AttendanceRecord{},
		&model.ScheduleEntry{},
	)
}
