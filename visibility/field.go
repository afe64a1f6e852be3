package visibility

// Field names a profile attribute subject to visibility resolution.
// The string values double as the keys of the admin display-field and
// plan capability maps.
type Field string

const (
	FieldName          Field = "name"
	FieldFatherName    Field = "fatherName"
	FieldMotherName    Field = "motherName"
	FieldAge           Field = "age"
	FieldDateOfBirth   Field = "dateOfBirth"
	FieldGender        Field = "gender"
	FieldMaritalStatus Field = "maritalStatus"
	FieldDisability    Field = "disability"
	FieldOrigin        Field = "countryOfOrigin"
	FieldLocation      Field = "location"
	FieldEducation     Field = "education"
	FieldOccupation    Field = "occupation"
	FieldLanguages     Field = "languagesKnown"
	FieldSiblings      Field = "siblings"
	FieldAbout         Field = "about"
	FieldLookingFor    Field = "lookingFor"
	FieldProfilePhoto  Field = "profilePhoto"
	FieldGallery       Field = "galleryImages"
	FieldContact       Field = "contact"
	FieldEmail         Field = "email"
	FieldIDNumber      Field = "idNumber"
	FieldIDCardPhoto   Field = "idCardPhoto"
)

// allFields enumerates every resolvable field.
var allFields = []Field{
	FieldName, FieldFatherName, FieldMotherName, FieldAge, FieldDateOfBirth,
	FieldGender, FieldMaritalStatus, FieldDisability, FieldOrigin,
	FieldLocation, FieldEducation, FieldOccupation, FieldLanguages,
	FieldSiblings, FieldAbout, FieldLookingFor, FieldProfilePhoto,
	FieldGallery, FieldContact, FieldEmail, FieldIDNumber, FieldIDCardPhoto,
}

// sensitiveFields are hidden from every non-self, non-admin viewer
// unless the administrator re-enables them for connected pairs.
var sensitiveFields = []Field{FieldContact, FieldEmail, FieldIDCardPhoto, FieldIDNumber}

// demographicFields are gated behind a connection or a public profile.
var demographicFields = []Field{
	FieldAge, FieldLocation, FieldEducation, FieldOccupation,
	FieldFatherName, FieldMotherName, FieldDateOfBirth, FieldMaritalStatus,
	FieldDisability, FieldOrigin, FieldLanguages, FieldSiblings,
	FieldAbout, FieldLookingFor,
}

// photoFields are gated behind an accepted photo request.
var photoFields = []Field{FieldProfilePhoto, FieldGallery}

// baseDisplayFields is the set the global display policy has the last
// word on.
var baseDisplayFields = []Field{
	FieldName, FieldAge, FieldLocation, FieldEducation, FieldOccupation,
	FieldAbout, FieldProfilePhoto, FieldFatherName, FieldMotherName,
}

// FieldSet tracks which fields remain visible during resolution.
type FieldSet map[Field]bool

func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = true
	}
	return s
}

func (s FieldSet) Has(f Field) bool { return s[f] }

func (s FieldSet) Hide(fields ...Field) {
	for _, f := range fields {
		delete(s, f)
	}
}

func (s FieldSet) Show(fields ...Field) {
	for _, f := range fields {
		s[f] = true
	}
}
