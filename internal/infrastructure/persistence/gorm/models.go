// Package gorm provides GORM model definitions and repositories for the
// application.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoalModel represents the GORM model for goals
type GoalModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID `gorm:"type:char(36);not null;index:idx_goals_user;index:idx_goals_identity,unique"`
	Identity      string    `gorm:"type:varchar(255);not null;index:idx_goals_identity,unique"`
	StandardType  string    `gorm:"type:varchar(50)"`
	CustomLabel   string    `gorm:"type:varchar(255)"`
	Priority      int       `gorm:"not null"`
	Fragment      JSONField `gorm:"type:json"`
	TrackAndLearn bool      `gorm:"default:false"`
	Version       int64     `gorm:"default:1"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName overrides the table name
func (GoalModel) TableName() string {
	return "goals"
}

// RecipeModel represents the GORM model for corpus candidates
type RecipeModel struct {
	ID             uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Name           string      `gorm:"type:varchar(255);not null;index"`
	CostPerServing float64     `gorm:"not null;index"`
	PrepMinutes    int         `gorm:"not null;index"`
	Nutrients      JSONField   `gorm:"type:json"`
	Tags           StringSlice `gorm:"type:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the table name
func (RecipeModel) TableName() string {
	return "recipes"
}

// ProfileRestrictionModel persists one profile-level hard restriction,
// mirroring the personalization collaborator's allergen/diet tables.
type ProfileRestrictionModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Kind      string    `gorm:"type:varchar(20);not null"` // "allergy" or "diet_exclusion"
	Item      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
}

// TableName overrides the table name
func (ProfileRestrictionModel) TableName() string {
	return "profile_restrictions"
}

// ProxyWeightModel persists one learned tag weight for a custom goal label.
type ProxyWeightModel struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Label     string    `gorm:"type:varchar(255);primaryKey"`
	Tag       string    `gorm:"type:varchar(100);primaryKey"`
	Weight    float64   `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (ProxyWeightModel) TableName() string {
	return "proxy_weights"
}

// StringSlice custom type for storing string slices as JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// JSONField custom type for handling JSON fields
type JSONField map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = JSONField{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return json.Marshal(j)
}
