package models

import "time"

// FarmerProfile is the relational record behind the subject profile signal:
// risk score, location, and crop label consumed by officer analytics. Phone
// is the subject identifier used everywhere else in the system.
type FarmerProfile struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Phone         string    `gorm:"column:phone;uniqueIndex;not null" json:"phone"`
	Name          string    `gorm:"column:name;not null" json:"name"`
	CropType      string    `gorm:"column:crop_type;not null" json:"crop_type"`
	Location      string    `gorm:"column:location;not null" json:"location"`
	SowingDate    string    `gorm:"column:sowing_date" json:"sowing_date"`
	LandSizeAcres float64   `gorm:"column:land_size_acres" json:"land_size_acres"`
	GrowthStage   string    `gorm:"column:growth_stage;default:seedling" json:"growth_stage"`
	SoilType      string    `gorm:"column:soil_type;default:loamy" json:"soil_type"`
	RiskScore     int       `gorm:"column:risk_score;default:0" json:"risk_score"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name stable across drivers.
func (FarmerProfile) TableName() string {
	return "farmer_profiles"
}
