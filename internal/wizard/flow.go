package wizard

import (
	"errors"
	"fmt"
)

type Mode string

const (
	ModeRegister Mode = "register"
	ModeEdit     Mode = "edit"
)

var ErrUnknownMode = errors.New("unknown wizard mode")

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRegister:
		return ModeRegister, nil
	case ModeEdit:
		return ModeEdit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Step is one row of a flow's step-definition table.
type Step struct {
	Index     int
	Name      string
	Fields    []FieldPath
	Validates bool
}

// Flow is an ordered step table. Indices are contiguous from Steps[0].Index.
type Flow struct {
	Mode            Mode
	Steps           []Step
	RequiresReceipt bool
}

var (
	personalFields = []FieldPath{
		PersonalFirstName, PersonalLastName, PersonalPassOutYear, PersonalDOB,
		PersonalBloodGroup, PersonalHighestQualification, PersonalAltEmail,
	}
	contactFields = []FieldPath{
		PresentCity, PresentState, PresentCountry, PresentPincode,
		PermanentCity, PermanentState, PermanentCountry, PermanentPincode,
		ContactMobile, ContactTelephone,
	}
	experienceFields = []FieldPath{
		ExperienceOpenToWork, OpenToWorkTechnicalSkills, OpenToWorkCertifications,
		OpenToWorkSoftSkills, OpenToWorkOther,
	}
	privacyFields = []FieldPath{
		PrivacyShowEmail, PrivacyShowPhone, PrivacyShowCompany, PrivacyShowLocation,
	}
)

// RegistrationFlow: Personal(1) Contact(2) Experience(3) Review(4) Payment(5).
func RegistrationFlow() Flow {
	return Flow{
		Mode: ModeRegister,
		Steps: []Step{
			{Index: 1, Name: "personal", Fields: personalFields, Validates: true},
			{Index: 2, Name: "contact", Fields: contactFields, Validates: true},
			{Index: 3, Name: "experience", Fields: experienceFields},
			{Index: 4, Name: "review"},
			{Index: 5, Name: "payment", Fields: []FieldPath{PaymentReceipt}},
		},
		RequiresReceipt: true,
	}
}

// EditFlow: Personal(0) Contact(1) Experience(2) Privacy(3) Review(4).
func EditFlow() Flow {
	return Flow{
		Mode: ModeEdit,
		Steps: []Step{
			{Index: 0, Name: "personal", Fields: personalFields, Validates: true},
			{Index: 1, Name: "contact", Fields: contactFields, Validates: true},
			{Index: 2, Name: "experience", Fields: experienceFields},
			{Index: 3, Name: "privacy", Fields: privacyFields},
			{Index: 4, Name: "review"},
		},
	}
}

func FlowFor(mode Mode) (Flow, error) {
	switch mode {
	case ModeRegister:
		return RegistrationFlow(), nil
	case ModeEdit:
		return EditFlow(), nil
	}
	return Flow{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func (f Flow) First() int {
	return f.Steps[0].Index
}

func (f Flow) Last() int {
	return f.Steps[len(f.Steps)-1].Index
}

func (f Flow) Step(index int) (Step, bool) {
	pos := index - f.First()
	if pos < 0 || pos >= len(f.Steps) {
		return Step{}, false
	}
	return f.Steps[pos], true
}

func (f Flow) clamp(index int) int {
	if index < f.First() {
		return f.First()
	}
	if index > f.Last() {
		return f.Last()
	}
	return index
}
