package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dteaa/membership_service/internal/geo"
)

var (
	ErrUnknownField   = errors.New("unknown field")
	ErrImmutableField = errors.New("field cannot be changed")
	ErrInvalidBool    = errors.New("value must be true or false")
	ErrInvalidOption  = errors.New("value is not one of the allowed options")
)

// FieldPath names every scalar field of FormState that can be set or carry an error.
type FieldPath int

const (
	FieldUnknown FieldPath = iota

	PersonalFirstName
	PersonalLastName
	PersonalPassOutYear
	PersonalDOB
	PersonalBloodGroup
	PersonalEmail
	PersonalAltEmail
	PersonalHighestQualification
	PersonalSpecialization

	PresentCity
	PresentState
	PresentCountry
	PresentPincode
	PermanentCity
	PermanentState
	PermanentCountry
	PermanentPincode
	ContactSameAsPresent
	ContactMobile
	ContactTelephone

	ExperienceOpenToWork
	OpenToWorkTechnicalSkills
	OpenToWorkCertifications
	OpenToWorkSoftSkills
	OpenToWorkOther

	PrivacyShowEmail
	PrivacyShowPhone
	PrivacyShowCompany
	PrivacyShowLocation

	// PaymentReceipt only carries errors; the receipt is attached as a file.
	PaymentReceipt

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldUnknown:                 "",
	PersonalFirstName:            "personal.firstName",
	PersonalLastName:             "personal.lastName",
	PersonalPassOutYear:          "personal.passOutYear",
	PersonalDOB:                  "personal.dob",
	PersonalBloodGroup:           "personal.bloodGroup",
	PersonalEmail:                "personal.email",
	PersonalAltEmail:             "personal.altEmail",
	PersonalHighestQualification: "personal.highestQualification",
	PersonalSpecialization:       "personal.specialization",
	PresentCity:                  "contact.presentAddress.city",
	PresentState:                 "contact.presentAddress.state",
	PresentCountry:               "contact.presentAddress.country",
	PresentPincode:               "contact.presentAddress.pincode",
	PermanentCity:                "contact.permanentAddress.city",
	PermanentState:               "contact.permanentAddress.state",
	PermanentCountry:             "contact.permanentAddress.country",
	PermanentPincode:             "contact.permanentAddress.pincode",
	ContactSameAsPresent:         "contact.sameAsPresentAddress",
	ContactMobile:                "contact.mobile",
	ContactTelephone:             "contact.telephone",
	ExperienceOpenToWork:         "experience.isOpenToWork",
	OpenToWorkTechnicalSkills:    "experience.openToWorkDetails.technicalSkills",
	OpenToWorkCertifications:     "experience.openToWorkDetails.certifications",
	OpenToWorkSoftSkills:         "experience.openToWorkDetails.softSkills",
	OpenToWorkOther:              "experience.openToWorkDetails.other",
	PrivacyShowEmail:             "privacy.showEmail",
	PrivacyShowPhone:             "privacy.showPhone",
	PrivacyShowCompany:           "privacy.showCompany",
	PrivacyShowLocation:          "privacy.showLocation",
	PaymentReceipt:               "payment.receipt",
}

var fieldsByName = func() map[string]FieldPath {
	m := make(map[string]FieldPath, fieldCount)
	for f := PersonalFirstName; f < fieldCount; f++ {
		m[fieldNames[f]] = f
	}
	return m
}()

func ParseFieldPath(s string) (FieldPath, error) {
	f, ok := fieldsByName[s]
	if !ok {
		return FieldUnknown, fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

func (f FieldPath) String() string {
	if f <= FieldUnknown || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

func (f FieldPath) MarshalText() ([]byte, error) {
	if f <= FieldUnknown || f >= fieldCount {
		return nil, ErrUnknownField
	}
	return []byte(fieldNames[f]), nil
}

func (f *FieldPath) UnmarshalText(b []byte) error {
	parsed, err := ParseFieldPath(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// IsBool reports whether the field takes "true"/"false".
func (f FieldPath) IsBool() bool {
	switch f {
	case ContactSameAsPresent, ExperienceOpenToWork,
		PrivacyShowEmail, PrivacyShowPhone, PrivacyShowCompany, PrivacyShowLocation:
		return true
	}
	return false
}

// Get returns the current value of f as its wire string.
func (s *FormState) Get(f FieldPath) string {
	switch f {
	case PersonalFirstName:
		return s.Personal.FirstName
	case PersonalLastName:
		return s.Personal.LastName
	case PersonalPassOutYear:
		return s.Personal.PassOutYear
	case PersonalDOB:
		return s.Personal.DOB
	case PersonalBloodGroup:
		return s.Personal.BloodGroup
	case PersonalEmail:
		return s.Personal.Email
	case PersonalAltEmail:
		return s.Personal.AltEmail
	case PersonalHighestQualification:
		return s.Personal.HighestQualification
	case PersonalSpecialization:
		return s.Personal.Specialization
	case PresentCity:
		return s.Contact.PresentAddress.City
	case PresentState:
		return s.Contact.PresentAddress.State
	case PresentCountry:
		return s.Contact.PresentAddress.Country
	case PresentPincode:
		return s.Contact.PresentAddress.Pincode
	case PermanentCity:
		return s.Contact.PermanentAddress.City
	case PermanentState:
		return s.Contact.PermanentAddress.State
	case PermanentCountry:
		return s.Contact.PermanentAddress.Country
	case PermanentPincode:
		return s.Contact.PermanentAddress.Pincode
	case ContactSameAsPresent:
		return strconv.FormatBool(s.Contact.SameAsPresentAddress)
	case ContactMobile:
		return s.Contact.Mobile
	case ContactTelephone:
		return s.Contact.Telephone
	case ExperienceOpenToWork:
		return strconv.FormatBool(s.Experience.IsOpenToWork)
	case OpenToWorkTechnicalSkills:
		return s.Experience.OpenToWorkDetails.TechnicalSkills
	case OpenToWorkCertifications:
		return s.Experience.OpenToWorkDetails.Certifications
	case OpenToWorkSoftSkills:
		return s.Experience.OpenToWorkDetails.SoftSkills
	case OpenToWorkOther:
		return s.Experience.OpenToWorkDetails.Other
	case PrivacyShowEmail:
		return strconv.FormatBool(s.Privacy.ShowEmail)
	case PrivacyShowPhone:
		return strconv.FormatBool(s.Privacy.ShowPhone)
	case PrivacyShowCompany:
		return strconv.FormatBool(s.Privacy.ShowCompany)
	case PrivacyShowLocation:
		return strconv.FormatBool(s.Privacy.ShowLocation)
	}
	return ""
}

// Set writes the trimmed value into f, applying the address cascade and the
// present->permanent copy. Email is only ever written by Prefill.
func (s *FormState) Set(f FieldPath, value string) error {
	value = strings.TrimSpace(value)
	if f.IsBool() {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidBool, f)
		}
		return s.setBool(f, b)
	}

	switch f {
	case PersonalFirstName:
		s.Personal.FirstName = value
	case PersonalLastName:
		s.Personal.LastName = value
	case PersonalPassOutYear:
		s.Personal.PassOutYear = value
	case PersonalDOB:
		s.Personal.DOB = value
	case PersonalBloodGroup:
		if err := checkOption(f, value, BloodGroups); err != nil {
			return err
		}
		s.Personal.BloodGroup = value
	case PersonalEmail:
		return fmt.Errorf("%w: %s", ErrImmutableField, f)
	case PersonalAltEmail:
		s.Personal.AltEmail = value
	case PersonalHighestQualification:
		if err := checkOption(f, value, Qualifications); err != nil {
			return err
		}
		s.Personal.HighestQualification = value
	case PersonalSpecialization:
		s.Personal.Specialization = value
	case PresentCity, PresentState, PresentCountry:
		s.Contact.PresentAddress = cascade(s.Contact.PresentAddress, f-PresentCity, value)
	case PresentPincode:
		s.Contact.PresentAddress.Pincode = value
	case PermanentCity, PermanentState, PermanentCountry:
		s.Contact.PermanentAddress = cascade(s.Contact.PermanentAddress, f-PermanentCity, value)
	case PermanentPincode:
		s.Contact.PermanentAddress.Pincode = value
	case ContactMobile:
		s.Contact.Mobile = value
	case ContactTelephone:
		s.Contact.Telephone = value
	case OpenToWorkTechnicalSkills:
		s.Experience.OpenToWorkDetails.TechnicalSkills = value
	case OpenToWorkCertifications:
		s.Experience.OpenToWorkDetails.Certifications = value
	case OpenToWorkSoftSkills:
		s.Experience.OpenToWorkDetails.SoftSkills = value
	case OpenToWorkOther:
		s.Experience.OpenToWorkDetails.Other = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return nil
}

// checkOption accepts "" so a select can be cleared back to its placeholder.
func checkOption(f FieldPath, value string, options []string) error {
	if value == "" || slices.Contains(options, value) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidOption, f)
}

func (s *FormState) setBool(f FieldPath, b bool) error {
	switch f {
	case ContactSameAsPresent:
		s.Contact.SameAsPresentAddress = b
		if b {
			// value copy; later present edits do not follow
			s.Contact.PermanentAddress = s.Contact.PresentAddress
		}
	case ExperienceOpenToWork:
		s.Experience.IsOpenToWork = b
	case PrivacyShowEmail:
		s.Privacy.ShowEmail = b
	case PrivacyShowPhone:
		s.Privacy.ShowPhone = b
	case PrivacyShowCompany:
		s.Privacy.ShowCompany = b
	case PrivacyShowLocation:
		s.Privacy.ShowLocation = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return nil
}

// cascade applies one city/state/country edit; offset is 0 city, 1 state, 2 country.
func cascade(a Address, offset FieldPath, value string) Address {
	sel := geo.Selection{Country: a.Country, State: a.State, City: a.City}
	switch offset {
	case 0:
		sel = sel.WithCity(value)
	case 1:
		sel = sel.WithState(value)
	case 2:
		sel = sel.WithCountry(value)
	}
	a.Country, a.State, a.City = sel.Country, sel.State, sel.City
	return a
}
