package catalog

import (
	"context"

	"gorm.io/gorm"

	"traffic-hotspot-api/models"
)

// PostgresSource reads the svc_counts table. DISTINCT ON keeps the lowest
// row id per segment, which is the first-encountered row of the import.
type PostgresSource struct {
	db *gorm.DB
}

func NewPostgresSource(db *gorm.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Describe() string {
	return "postgres:" + models.SVCCount{}.TableName()
}

func (s *PostgresSource) Records(ctx context.Context) ([]models.Segment, error) {
	var rows []models.SVCCount
	err := s.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (centreline_id) id, centreline_id, location_name, longitude, latitude
			FROM svc_counts
			ORDER BY centreline_id, id`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Segment, len(rows))
	for i, r := range rows {
		out[i] = models.Segment{
			CentrelineID: r.CentrelineID,
			LocationName: r.LocationName,
			Longitude:    r.Longitude,
			Latitude:     r.Latitude,
		}
	}
	return out, nil
}
