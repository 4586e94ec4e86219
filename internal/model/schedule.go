package model

// swagger:model ScheduleEntry
type ScheduleEntry struct {
	BaseModel
	TeamID    uint   `gorm:"index;not null" json:"teamId"`
	TeacherID uint   `gorm:"index;not null" json:"teacherId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Weekday   int    `gorm:"not null" json:"weekday"` // 0=周日 ... 6=周六
	StartTime string `gorm:"size:5;not null" json:"startTime"` // HH:MM
	EndTime   string `gorm:"size:5;not null" json:"endTime"`
	Room      string `gorm:"size:100" json:"room"`
}

func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}
