package models

import "time"

// SVCCount is one row of the cleaned speed/volume/classification counts the
// models were trained on. Only the location columns feed the catalog.
type SVCCount struct {
	ID              int64     `gorm:"column:id;primaryKey" json:"id"`
	CentrelineID    int64     `gorm:"column:centreline_id" json:"centreline_id"`
	LocationName    string    `gorm:"column:location_name" json:"location_name"`
	Longitude       float64   `gorm:"column:longitude" json:"longitude"`
	Latitude        float64   `gorm:"column:latitude" json:"latitude"`
	Datetime        time.Time `gorm:"column:datetime" json:"datetime"`
	TotalVehicles   int       `gorm:"column:total_vehicles" json:"total_vehicles"`
	CongestionLevel string    `gorm:"column:congestion_level" json:"congestion_level"`
}

func (SVCCount) TableName() string { return "svc_counts" }
