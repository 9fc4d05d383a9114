package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
)

// GormPlaceRepository implements the PlaceRepository interface
type GormPlaceRepository struct {
	db *gorm.DB
}

// NewGormPlaceRepository creates a new GORM place repository
func NewGormPlaceRepository(db *gorm.DB) repository.PlaceRepository {
	return &GormPlaceRepository{
		db: db,
	}
}

// Placelist GORM model for database mapping
type Placelist struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	CityName  string         `gorm:"column:cityname"`
	Country   string         `gorm:"column:country"`
	TzName    string         `gorm:"column:tzname"`
	Lat       float64        `gorm:"column:lat"`
	Lng       float64        `gorm:"column:lng"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Placelist) TableName() string {
	return "m_place_list"
}

// GetByCode finds a place by its IATA or station code
func (r *GormPlaceRepository) GetByCode(ctx context.Context, code string) (*entity.Place, error) {
	var place Placelist
	result := r.db.WithContext(ctx).Unscoped().Where("code = ?", code).First(&place)

	if result.Error != nil {
		return nil, result.Error
	}

	return toPlaceEntity(&place), nil
}

// SearchByName finds a place whose name or city matches the given text
func (r *GormPlaceRepository) SearchByName(ctx context.Context, name string) (*entity.Place, error) {
	var place Placelist
	result := r.db.WithContext(ctx).Unscoped().
		Where("name ILIKE ? OR cityname ILIKE ?", "%"+name+"%", "%"+name+"%").
		First(&place)

	if result.Error != nil {
		return nil, result.Error
	}

	return toPlaceEntity(&place), nil
}

// toPlaceEntity converts the GORM model to a domain entity
func toPlaceEntity(place *Placelist) *entity.Place {
	return &entity.Place{
		ID:        place.ID,
		Code:      place.Code,
		Name:      place.Name,
		CityName:  place.CityName,
		Country:   place.Country,
		TzName:    place.TzName,
		Lat:       place.Lat,
		Lng:       place.Lng,
		CreatedAt: place.CreatedAt,
		UpdatedAt: place.UpdatedAt,
		DeletedAt: place.DeletedAt,
	}
}
