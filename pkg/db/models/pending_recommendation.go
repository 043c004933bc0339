package models

import "time"

// PendingRecommendation is an AI-generated suggestion waiting for an
// officer to validate it before it becomes a farmer-facing advisory.
type PendingRecommendation struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Farmer    string    `gorm:"column:farmer;not null" json:"farmer"`
	Source    string    `gorm:"column:source;not null" json:"source"`
	Text      string    `gorm:"column:text;not null" json:"text"`
	Status    string    `gorm:"column:status;default:pending" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PendingRecommendation) TableName() string {
	return "pending_recommendations"
}
