package wizard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MinPassOutYear = 1950

var (
	fourDigitsRegex = regexp.MustCompile(`^\d{4}$`)
	pincodeRegex    = regexp.MustCompile(`^\d{4,6}$`)
	mobileRegex     = regexp.MustCompile(`^\+?\d{10,15}$`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Errors maps a field to its current message. Absent means valid.
type Errors map[FieldPath]string

func (e Errors) HasAny() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

func (e Errors) Clear(fields []FieldPath) {
	for _, f := range fields {
		delete(e, f)
	}
}

func (e Errors) Merge(other Errors) {
	for f, msg := range other {
		if msg == "" {
			delete(e, f)
			continue
		}
		e[f] = msg
	}
}

// Validator applies the per-field rules. It is safe for concurrent use.
type Validator struct {
	now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorAt pins "current year" to now().
func NewValidatorAt(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Validate returns the error message for value in field f, or "".
// state may be partial; it is only read for cross-field rules.
func (v *Validator) Validate(f FieldPath, value string, state *FormState) string {
	if state != nil && state.Contact.SameAsPresentAddress && isPermanent(f) {
		return ""
	}

	rules := v.rules(f)
	if len(rules) == 0 {
		return ""
	}
	if err := validation.Validate(strings.TrimSpace(value), rules...); err != nil {
		return err.Error()
	}
	return ""
}

// ValidateFields bulk-validates fields against their values in state.
func (v *Validator) ValidateFields(fields []FieldPath, state *FormState) Errors {
	errs := Errors{}
	for _, f := range fields {
		if msg := v.Validate(f, state.Get(f), state); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

func (v *Validator) rules(f FieldPath) []validation.Rule {
	switch f {
	case PersonalFirstName:
		return required("First name is required")
	case PersonalLastName:
		return required("Last name is required")
	case PersonalPassOutYear:
		return []validation.Rule{
			validation.Required.Error("Pass out year is required"),
			validation.Match(fourDigitsRegex).Error("Pass out year must be a 4-digit year"),
			validation.By(v.yearInRange),
		}
	case PersonalDOB:
		return required("Date of birth is required")
	case PersonalBloodGroup:
		return []validation.Rule{
			validation.Required.Error("Blood group is required"),
			validation.In(options(BloodGroups)...).Error("Please select a valid blood group"),
		}
	case PersonalHighestQualification:
		return []validation.Rule{
			validation.Required.Error("Highest qualification is required"),
			validation.In(options(Qualifications)...).Error("Please select a valid qualification"),
		}
	case PersonalAltEmail:
		return []validation.Rule{
			validation.Match(emailRegex).Error("Please enter a valid email address"),
		}
	case PresentCity, PermanentCity:
		return required("City is required")
	case PresentState, PermanentState:
		return required("State is required")
	case PresentCountry, PermanentCountry:
		return required("Country is required")
	case PresentPincode, PermanentPincode:
		return []validation.Rule{
			validation.Required.Error("Pincode is required"),
			validation.Match(pincodeRegex).Error("Pincode must be 4 to 6 digits"),
		}
	case ContactMobile:
		return []validation.Rule{
			validation.Required.Error("Mobile number is required"),
			validation.Match(mobileRegex).Error("Mobile number must be 10 to 15 digits, optionally starting with +"),
		}
	}
	return nil
}

func (v *Validator) yearInRange(value interface{}) error {
	s, _ := value.(string)
	year, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	current := v.now().Year()
	if year < MinPassOutYear || year > current {
		return fmt.Errorf("Pass out year must be between %d and %d", MinPassOutYear, current)
	}
	return nil
}

func required(msg string) []validation.Rule {
	return []validation.Rule{validation.Required.Error(msg)}
}

func options(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func isPermanent(f FieldPath) bool {
	return f >= PermanentCity && f <= PermanentPincode
}
