package visibility

import (
	"testing"

	"github.com/nikahapp/matrimony-backend/db/model"
)

func fullUser(id uint) *model.User {
	u := &model.User{
		Name:            "Amina",
		FatherName:      "Yusuf",
		MotherName:      "Halima",
		Age:             28,
		Gender:          model.GenderFemale,
		MaritalStatus:   "single",
		CountryOfOrigin: "MY",
		Location:        "Kuala Lumpur",
		Contact:         "+60123456789",
		Email:           "amina@example.com",
		IDNumber:        "A1234567",
		IDCardPhoto:     "ids/a.jpg",
		Education:       "bachelor",
		Occupation:      "teacher",
		LanguagesKnown:  model.StringList{"ms", "en"},
		Siblings:        2,
		About:           "bio",
		LookingFor:      "practising partner",
		ProfilePhoto:    "photos/a.jpg",
		GalleryImages:   model.StringList{"g/1.jpg"},
		Status:          model.UserStatusApproved,
	}
	u.ID = id
	return u
}

func viewer(id uint) *model.User {
	u := &model.User{Name: "Bilal", Gender: model.GenderMale, Status: model.UserStatusApproved}
	u.ID = id
	return u
}

func TestSelfSeesEverything(t *testing.T) {
	u := fullUser(1)
	p := Resolve(Input{Viewer: u, Target: u})
	if p.Contact == "" || p.Email == "" || p.IDCardPhoto == "" || p.IDNumber == "" {
		t.Error("self view dropped sensitive fields")
	}
	if p.About == "" || p.ProfilePhoto == "" || p.FatherName == "" {
		t.Error("self view dropped own fields")
	}
	if p.Blocked {
		t.Error("self view flagged blocked")
	}
}

func TestAdminSeesEverything(t *testing.T) {
	a := viewer(9)
	a.IsAdmin = true
	target := fullUser(1)
	target.BlockedUsers = []*model.User{a}
	p := Resolve(Input{Viewer: a, Target: target})
	if p.Contact == "" || p.IDCardPhoto == "" {
		t.Error("admin view dropped sensitive fields")
	}
	if p.Blocked {
		t.Error("admin view honoured the target's block")
	}
	if !p.IsBlockedByThem {
		t.Error("admin view lost the block flag")
	}
}

func TestStrangerOnPrivateProfile(t *testing.T) {
	p := Resolve(Input{Viewer: viewer(2), Target: fullUser(1)})
	if p.Name == "" || p.Gender == "" {
		t.Error("identity fields hidden from stranger")
	}
	if p.Age != 0 || p.Location != "" || p.About != "" || p.FatherName != "" {
		t.Error("demographics leaked to stranger on private profile")
	}
	if p.ProfilePhoto != "" || len(p.GalleryImages) != 0 {
		t.Error("photos leaked to stranger on private profile")
	}
	if p.Contact != "" || p.Email != "" || p.IDNumber != "" || p.IDCardPhoto != "" {
		t.Error("sensitive fields leaked to stranger")
	}
}

func TestPublicProfileOpensDemographicsAndPhotos(t *testing.T) {
	target := fullUser(1)
	target.IsPublic = true
	p := Resolve(Input{Viewer: viewer(2), Target: target})
	if p.Age == 0 || p.Location == "" || p.About == "" {
		t.Error("demographics hidden on public profile")
	}
	if p.ProfilePhoto == "" {
		t.Error("photos hidden on public profile")
	}
	if p.Contact != "" || p.Email != "" || p.IDCardPhoto != "" {
		t.Error("public profile leaked sensitive fields")
	}
}

func TestConnectionOpensDemographicsNotPhotos(t *testing.T) {
	in := Input{Viewer: viewer(2), Target: fullUser(1), Conn: ConnState{Connected: true}}
	p := Resolve(in)
	if p.Age == 0 || p.About == "" {
		t.Error("demographics hidden from connected viewer")
	}
	if p.ProfilePhoto != "" || len(p.GalleryImages) != 0 {
		t.Error("photos visible without an accepted photo request")
	}
	if !p.IsConnected {
		t.Error("IsConnected not set")
	}

	in.Conn.PhotoAllowed = true
	p = Resolve(in)
	if p.ProfilePhoto == "" || len(p.GalleryImages) == 0 {
		t.Error("photos hidden after photo approval")
	}
	if !p.IsPhotoAccessible {
		t.Error("IsPhotoAccessible not set")
	}
}

func TestPhotoApprovalWithoutConnectionKeepsPhotosHidden(t *testing.T) {
	p := Resolve(Input{Viewer: viewer(2), Target: fullUser(1), Conn: ConnState{PhotoAllowed: true}})
	if p.ProfilePhoto != "" {
		t.Error("photo approval alone revealed photos on a private profile")
	}
}

func TestTargetBlockedViewer(t *testing.T) {
	v := viewer(2)
	target := fullUser(1)
	target.IsPublic = true
	target.BlockedUsers = []*model.User{v}
	p := Resolve(Input{
		Viewer: v,
		Target: target,
		Conn:   ConnState{Connected: true, PhotoAllowed: true, PhotoRequestStatus: model.StatusAccepted, PhotoRequestDirection: "sent"},
	})
	if !p.Blocked || !p.IsBlockedByThem {
		t.Error("block flags not set")
	}
	if p.Name == "" {
		t.Error("name hidden on blocked projection")
	}
	if p.Age != 0 || p.About != "" || p.ProfilePhoto != "" || p.Gender != "" {
		t.Error("blocked projection leaked profile fields")
	}
	if p.PhotoRequestStatus != "" || p.PhotoRequestDirection != "" {
		t.Error("blocked projection leaked photo request state")
	}
}

func TestViewerBlockedTargetHidesAbout(t *testing.T) {
	target := fullUser(1)
	target.IsPublic = true
	v := viewer(2)
	v.BlockedUsers = []*model.User{target}
	p := Resolve(Input{Viewer: v, Target: target})
	if !p.IsBlockedByMe {
		t.Error("IsBlockedByMe not set")
	}
	if p.About != "" {
		t.Error("about visible on a profile the viewer blocked")
	}
	if p.Age == 0 {
		t.Error("public demographics hidden from blocking viewer")
	}
}

func TestPlanViewAllUsersAndPhotos(t *testing.T) {
	plan := &model.AdvancedFeatures{ViewAllUsers: true}
	p := Resolve(Input{Viewer: viewer(2), Target: fullUser(1), Plan: plan})
	if p.Age == 0 || p.About == "" {
		t.Error("viewAllUsers did not open demographics")
	}
	if p.ProfilePhoto != "" {
		t.Error("viewAllUsers opened photos")
	}

	plan.ViewAllPhotos = true
	p = Resolve(Input{Viewer: viewer(2), Target: fullUser(1), Plan: plan})
	if p.ProfilePhoto == "" {
		t.Error("viewAllPhotos did not open photos")
	}
	if p.Contact != "" || p.IDCardPhoto != "" {
		t.Error("plan capabilities leaked sensitive fields")
	}
}

func TestConnectedSensitiveReEnable(t *testing.T) {
	settings := &model.AppSettings{ProfileDisplayFields: model.FieldFlags{
		"contact": true,
		"email":   true,
	}}
	in := Input{Viewer: viewer(2), Target: fullUser(1), Settings: settings}
	p := Resolve(in)
	if p.Contact != "" || p.Email != "" {
		t.Error("sensitive re-enable applied without a connection")
	}

	in.Conn.Connected = true
	p = Resolve(in)
	if p.Contact == "" || p.Email == "" {
		t.Error("admin-enabled contact/email hidden from connected pair")
	}
	if p.IDCardPhoto != "" {
		t.Error("id card photo revealed; it has no re-enable path")
	}
}

func TestCanViewFieldsMatrix(t *testing.T) {
	target := fullUser(1)
	target.IsPublic = true

	// non-photo entries are subtractive only
	plan := &model.AdvancedFeatures{CanViewFields: model.FieldFlags{
		"contact": true,
		"age":     false,
	}}
	p := Resolve(Input{Viewer: viewer(2), Target: target, Plan: plan})
	if p.Contact != "" {
		t.Error("matrix true re-revealed a sensitive field")
	}
	if p.Age != 0 {
		t.Error("matrix false did not hide age")
	}

	// photo entries are authoritative in both directions
	plan = &model.AdvancedFeatures{CanViewFields: model.FieldFlags{"profilePhoto": true}}
	p = Resolve(Input{Viewer: viewer(2), Target: fullUser(1), Plan: plan})
	if p.ProfilePhoto == "" {
		t.Error("matrix true did not reveal the profile photo")
	}

	plan = &model.AdvancedFeatures{CanViewFields: model.FieldFlags{"profilePhoto": false}}
	p = Resolve(Input{Viewer: viewer(2), Target: target, Plan: plan})
	if p.ProfilePhoto != "" {
		t.Error("matrix false did not hide the profile photo on a public profile")
	}
}

func TestGlobalDisplayDefaultsLastWord(t *testing.T) {
	settings := &model.AppSettings{ProfileDisplayFields: model.FieldFlags{
		"fatherName": false,
		"motherName": false,
		"about":      false,
	}}
	p := Resolve(Input{
		Viewer:   viewer(2),
		Target:   fullUser(1),
		Conn:     ConnState{Connected: true},
		Settings: settings,
	})
	if p.FatherName != "" || p.MotherName != "" || p.About != "" {
		t.Error("globally disabled fields visible to connected viewer")
	}
	if p.Age == 0 {
		t.Error("fields outside the disabled set were hidden")
	}
}

func TestFeedExcluded(t *testing.T) {
	v := viewer(2)
	other := fullUser(1)
	if FeedExcluded(v, other, false) {
		t.Error("eligible candidate excluded")
	}
	if !FeedExcluded(v, v, false) {
		t.Error("self not excluded")
	}
	if !FeedExcluded(v, other, true) {
		t.Error("matched candidate not excluded")
	}
	v.RejectedUsers = []*model.User{other}
	if !FeedExcluded(v, other, false) {
		t.Error("rejected candidate not excluded")
	}
}
