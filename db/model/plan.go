package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AdvancedFeatures is the capability set attached to a premium plan.
// CanViewFields, when present, is intersected with the visible field
// set on every profile view.
type AdvancedFeatures struct {
	ViewAllUsers            bool       `json:"view_all_users"`
	ViewAllPhotos           bool       `json:"view_all_photos"`
	CanMessageWithoutFollow bool       `json:"can_message_without_follow"`
	CanViewFields           FieldFlags `json:"can_view_fields,omitempty"`
}

func (f *AdvancedFeatures) Scan(value any) error {
	if value == nil {
		*f = AdvancedFeatures{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return fmt.Errorf("unsupported type for AdvancedFeatures: %T", value)
}

func (f AdvancedFeatures) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// PremiumPlan is a subscription tier definition. Plans are referenced
// by users and treated as immutable per version.
type PremiumPlan struct {
	Base
	Name             string           `json:"name"`
	DurationMonths   int              `json:"duration_months"`
	Price            int              `json:"price"`
	Discount         int              `json:"discount"`
	RequestLimit     int              `json:"request_limit"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	Features         StringList       `gorm:"type:jsonb" json:"features"`
	AdvancedFeatures AdvancedFeatures `gorm:"type:jsonb" json:"advanced_features"`
}
