package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanPayload stores a full generation response as JSONB
type PlanPayload DietPlanResponse

// Value implements the driver.Valuer interface
func (p PlanPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (p *PlanPayload) Scan(value interface{}) error {
	if value == nil {
		*p = PlanPayload{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported plan payload type %T", value)
	}

	return json.Unmarshal(bytes, p)
}

// PlanRecord is a diet plan saved for a user
type PlanRecord struct {
	ID             uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	UserID         string         `gorm:"size:64;not null;index" json:"user_id"`
	Goal           string         `gorm:"size:32" json:"goal"`
	StartDate      string         `gorm:"size:10" json:"start_date"`
	TargetCalories int            `json:"target_calories"`
	Source         string         `gorm:"size:64" json:"source"`
	Payload        PlanPayload    `gorm:"type:jsonb;not null" json:"-"`
}

func (PlanRecord) TableName() string {
	return "diet_plans"
}

// BeforeCreate assigns an id when the caller did not
func (r *PlanRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
