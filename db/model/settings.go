package model

// AppSettings is the admin-owned global settings singleton. It is
// created with defaults on first read and updated in place, never
// deleted. ProfileDisplayFields is the administrator's last-word field
// visibility override.
type AppSettings struct {
	Base
	FreeUserRequestLimit    int `gorm:"default:2" json:"free_user_request_limit"`
	PremiumUserRequestLimit int `gorm:"default:20" json:"premium_user_request_limit"`

	ProfileDisplayFields FieldFlags `gorm:"type:jsonb" json:"profile_display_fields"`
	EnabledFilters       FieldFlags `gorm:"type:jsonb" json:"enabled_filters"`
}

// DefaultDisplayFields mirrors the defaults applied when the settings
// row is first created.
func DefaultDisplayFields() FieldFlags {
	return FieldFlags{
		"name":         true,
		"age":          true,
		"location":     true,
		"education":    true,
		"occupation":   true,
		"about":        true,
		"profilePhoto": true,
		"fatherName":   false,
		"motherName":   false,
		"contact":      false,
		"email":        false,
	}
}

// DefaultFilters lists the feed filters enabled out of the box.
func DefaultFilters() FieldFlags {
	return FieldFlags{
		"location":      true,
		"age":           true,
		"education":     true,
		"occupation":    true,
		"maritalStatus": true,
		"nameSearch":    true,
	}
}
