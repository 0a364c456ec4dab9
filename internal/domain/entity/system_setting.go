package entity

import "time"

// SystemSetting is a global parameter shown on the general settings panel
type SystemSetting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Group     string    `gorm:"column:group_name;type:varchar(50);index" json:"group"`
	Label     string    `gorm:"type:varchar(200)" json:"label"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
