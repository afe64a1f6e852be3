package model

import (
	"time"

	"github.com/google/uuid"
)

// account approval status
const (
	UserStatusPending  = "pending"
	UserStatusApproved = "approved"
	UserStatusBlocked  = "blocked"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type User struct {
	Base
	Name            string     `json:"name"`
	FatherName      string     `json:"father_name"`
	MotherName      string     `json:"mother_name"`
	Age             int        `json:"age"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Gender          string     `gorm:"index:idx_users_feed,priority:1" json:"gender"`
	MaritalStatus   string     `json:"marital_status"`
	Disability      string     `json:"disability"`
	CountryOfOrigin string     `json:"country_of_origin"`
	Location        string     `json:"location"`
	Contact         string     `gorm:"unique" json:"contact"`
	Email           string     `gorm:"index" json:"email"`
	PasswordHash    string     `json:"-"`
	IDNumber        string     `json:"id_number"`
	IDCardPhoto     string     `json:"id_card_photo"`
	Education       string     `json:"education"`
	Occupation      string     `json:"occupation"`
	LanguagesKnown  StringList `gorm:"type:jsonb" json:"languages_known"`
	Siblings        int        `json:"siblings"`
	About           string     `json:"about"`
	LookingFor      string     `json:"looking_for"`
	ProfilePhoto    string     `json:"profile_photo"`
	GalleryImages   StringList `gorm:"type:jsonb" json:"gallery_images"`

	Status   string `gorm:"default:pending;index:idx_users_feed,priority:2" json:"status"`
	IsPublic bool   `gorm:"default:false" json:"is_public"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`

	IsPremium        bool         `gorm:"default:false" json:"is_premium"`
	PremiumExpiresAt *time.Time   `json:"premium_expires_at"`
	PremiumPlanID    *uint        `json:"premium_plan_id"`
	PremiumPlan      *PremiumPlan `json:"-"`

	RequestsToday   int       `json:"requests_today"`
	RequestsTodayAt time.Time `json:"requests_today_at"`

	BlockedUsers  []*User `gorm:"many2many:user_blocks" json:"-"`
	RejectedUsers []*User `gorm:"many2many:user_rejections" json:"-"`

	PendingEdits    EditBag `gorm:"type:jsonb" json:"pending_edits,omitempty"`
	HasPendingEdits bool    `gorm:"index" json:"has_pending_edits"`

	DisplayPriority int `gorm:"default:0" json:"display_priority"`

	// per-user nsq topic for lifecycle notifications
	Topic    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()" json:"-"`
	Sessions []Session `json:"-"`
}

// PremiumActive reports whether the user holds an unexpired premium
// subscription at the given instant.
func (u *User) PremiumActive(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(now)
}

// HasBlocked reports whether other is in the user's block list. The
// BlockedUsers association must be preloaded.
func (u *User) HasBlocked(otherID uint) bool {
	for _, b := range u.BlockedUsers {
		if b.ID == otherID {
			return true
		}
	}
	return false
}

// HasRejected reports whether other was removed from the user's feed.
func (u *User) HasRejected(otherID uint) bool {
	for _, r := range u.RejectedUsers {
		if r.ID == otherID {
			return true
		}
	}
	return false
}
