// Package visibility computes the redacted projection of one user's
// profile as seen by another. Resolution is a pure function of the two
// accounts, their connection state, the viewer's plan capabilities and
// the global display settings; it performs no I/O.
package visibility

import (
	"github.com/nikahapp/matrimony-backend/db/model"
)

// ConnState is the ledger state between viewer and target.
type ConnState struct {
	// Connected is true when an accepted follow/chat/both record exists
	// between the pair, in either direction.
	Connected bool
	// PhotoAllowed is true when an accepted photo-kind record exists
	// between the pair.
	PhotoAllowed bool
	// PhotoRequestStatus/Direction describe the viewer's pending photo
	// request, if any, for UI affordances. Direction is "sent" or
	// "received".
	PhotoRequestStatus    string
	PhotoRequestDirection string
}

// Input bundles everything resolution depends on. Plan is the viewer's
// active premium plan capabilities, nil when the viewer holds none.
// Settings is a per-request snapshot, never a shared global.
type Input struct {
	Viewer   *model.User
	Target   *model.User
	Conn     ConnState
	Plan     *model.AdvancedFeatures
	Settings *model.AppSettings
}

// Profile is the projection returned to the viewer. Hidden fields are
// zero-valued and omitted from the JSON encoding.
type Profile struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name,omitempty"`
	FatherName      string     `json:"father_name,omitempty"`
	MotherName      string     `json:"mother_name,omitempty"`
	Age             int        `json:"age,omitempty"`
	DateOfBirth     string     `json:"date_of_birth,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	MaritalStatus   string     `json:"marital_status,omitempty"`
	Disability      string     `json:"disability,omitempty"`
	CountryOfOrigin string     `json:"country_of_origin,omitempty"`
	Location        string     `json:"location,omitempty"`
	Education       string     `json:"education,omitempty"`
	Occupation      string     `json:"occupation,omitempty"`
	LanguagesKnown  []string   `json:"languages_known,omitempty"`
	Siblings        int        `json:"siblings,omitempty"`
	About           string     `json:"about,omitempty"`
	LookingFor      string     `json:"looking_for,omitempty"`
	ProfilePhoto    string     `json:"profile_photo,omitempty"`
	GalleryImages   []string   `json:"gallery_images,omitempty"`
	Contact         string     `json:"contact,omitempty"`
	Email           string     `json:"email,omitempty"`
	IDNumber        string     `json:"id_number,omitempty"`
	IDCardPhoto     string     `json:"id_card_photo,omitempty"`

	Blocked               bool   `json:"blocked,omitempty"`
	IsConnected           bool   `json:"is_connected"`
	IsPhotoAccessible     bool   `json:"is_photo_accessible"`
	IsBlockedByMe         bool   `json:"is_blocked_by_me"`
	IsBlockedByThem       bool   `json:"is_blocked_by_them"`
	PhotoRequestStatus    string `json:"photo_request_status,omitempty"`
	PhotoRequestDirection string `json:"photo_request_direction,omitempty"`
}

// Resolve applies the visibility layers in precedence order and builds
// the projection. Apart from the admin-controlled sensitive-field
// re-enable for connected pairs, every layer may only further restrict
// the visible set.
func Resolve(in Input) Profile {
	fields := VisibleFields(in)
	blockedByThem := in.Target.HasBlocked(in.Viewer.ID)
	p := project(in.Target, fields)
	p.Blocked = blockedByThem && in.Viewer.ID != in.Target.ID && !in.Viewer.IsAdmin
	p.IsConnected = in.Conn.Connected
	p.IsPhotoAccessible = in.Conn.PhotoAllowed
	p.IsBlockedByMe = in.Viewer.HasBlocked(in.Target.ID)
	p.IsBlockedByThem = blockedByThem
	if !p.Blocked {
		p.PhotoRequestStatus = in.Conn.PhotoRequestStatus
		p.PhotoRequestDirection = in.Conn.PhotoRequestDirection
	}
	return p
}

// VisibleFields runs the layering and returns the surviving field set.
func VisibleFields(in Input) FieldSet {
	fields := NewFieldSet(allFields...)
	self := in.Viewer.ID == in.Target.ID

	if !self && !in.Viewer.IsAdmin {
		// always-hidden core, re-enabled only by the connected-pair
		// override below
		fields.Hide(sensitiveFields...)

		if in.Target.HasBlocked(in.Viewer.ID) {
			return NewFieldSet(FieldName)
		}
		if in.Viewer.HasBlocked(in.Target.ID) {
			fields.Hide(FieldAbout)
		}

		viewAllUsers := in.Plan != nil && in.Plan.ViewAllUsers
		viewAllPhotos := in.Plan != nil && in.Plan.ViewAllPhotos
		open := in.Target.IsPublic || in.Conn.Connected
		if !open && !viewAllUsers {
			fields.Hide(demographicFields...)
		}
		photoOpen := in.Target.IsPublic || (in.Conn.Connected && in.Conn.PhotoAllowed)
		if !photoOpen && !viewAllPhotos {
			fields.Hide(photoFields...)
		}

		if in.Conn.Connected && in.Settings != nil {
			for _, f := range []Field{FieldEmail, FieldContact, FieldIDNumber} {
				if in.Settings.ProfileDisplayFields.Enabled(string(f)) {
					fields.Show(f)
				}
			}
		}
	}

	// tier capability matrix, always subtractive except for photo
	// fields where the matrix flag is authoritative when present
	if in.Plan != nil && in.Plan.CanViewFields != nil {
		for _, f := range allFields {
			v, ok := in.Plan.CanViewFields[string(f)]
			if !ok {
				continue
			}
			if f == FieldProfilePhoto || f == FieldGallery {
				if v {
					fields.Show(f)
				} else {
					fields.Hide(f)
				}
			} else if !v {
				fields.Hide(f)
			}
		}
	}

	// global display defaults have the last word on the base set
	if in.Settings != nil && in.Settings.ProfileDisplayFields != nil {
		for _, f := range baseDisplayFields {
			if v, ok := in.Settings.ProfileDisplayFields[string(f)]; ok && !v {
				fields.Hide(f)
			}
		}
	}
	return fields
}

func project(u *model.User, fields FieldSet) Profile {
	p := Profile{ID: u.ID}
	if fields.Has(FieldName) {
		p.Name = u.Name
	}
	if fields.Has(FieldFatherName) {
		p.FatherName = u.FatherName
	}
	if fields.Has(FieldMotherName) {
		p.MotherName = u.MotherName
	}
	if fields.Has(FieldAge) {
		p.Age = u.Age
	}
	if fields.Has(FieldDateOfBirth) && u.DateOfBirth != nil {
		p.DateOfBirth = u.DateOfBirth.Format("2006-01-02")
	}
	if fields.Has(FieldGender) {
		p.Gender = u.Gender
	}
	if fields.Has(FieldMaritalStatus) {
		p.MaritalStatus = u.MaritalStatus
	}
	if fields.Has(FieldDisability) {
		p.Disability = u.Disability
	}
	if fields.Has(FieldOrigin) {
		p.CountryOfOrigin = u.CountryOfOrigin
	}
	if fields.Has(FieldLocation) {
		p.Location = u.Location
	}
	if fields.Has(FieldEducation) {
		p.Education = u.Education
	}
	if fields.Has(FieldOccupation) {
		p.Occupation = u.Occupation
	}
	if fields.Has(FieldLanguages) {
		p.LanguagesKnown = u.LanguagesKnown
	}
	if fields.Has(FieldSiblings) {
		p.Siblings = u.Siblings
	}
	if fields.Has(FieldAbout) {
		p.About = u.About
	}
	if fields.Has(FieldLookingFor) {
		p.LookingFor = u.LookingFor
	}
	if fields.Has(FieldProfilePhoto) {
		p.ProfilePhoto = u.ProfilePhoto
	}
	if fields.Has(FieldGallery) {
		p.GalleryImages = u.GalleryImages
	}
	if fields.Has(FieldContact) {
		p.Contact = u.Contact
	}
	if fields.Has(FieldEmail) {
		p.Email = u.Email
	}
	if fields.Has(FieldIDNumber) {
		p.IDNumber = u.IDNumber
	}
	if fields.Has(FieldIDCardPhoto) {
		p.IDCardPhoto = u.IDCardPhoto
	}
	return p
}

// FeedExcluded reports whether a candidate must be dropped from the
// viewer's discovery feed: the viewer itself, soft-rejected accounts,
// and accounts already matched by an accepted connection.
func FeedExcluded(viewer, candidate *model.User, connected bool) bool {
	if viewer.ID == candidate.ID {
		return true
	}
	if viewer.HasRejected(candidate.ID) {
		return true
	}
	return connected
}
