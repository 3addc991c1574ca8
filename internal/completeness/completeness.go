// Package completeness scores how much of a stored profile has been filled in.
// The score is for display only and never gates an operation.
package completeness

import (
	"math"
	"strings"

	"github.com/dteaa/membership_service/internal/domain"
)

type Band string

const (
	BandComplete Band = "complete"
	BandAlmost   Band = "almost"
	BandHalfway  Band = "halfway"
	BandStarted  Band = "started"
)

type Result struct {
	Percentage      int      `json:"percentage"`
	Band            Band     `json:"band"`
	MissingRequired []string `json:"missing_required"`
	MissingOptional []string `json:"missing_optional"`
}

type check struct {
	name     string
	required bool
	filled   func(p *domain.Profile) bool
}

func personal(get func(*domain.PersonalDetails) string) func(*domain.Profile) bool {
	return func(p *domain.Profile) bool {
		return p.Personal != nil && strings.TrimSpace(get(p.Personal)) != ""
	}
}

func contact(get func(*domain.ContactDetails) string) func(*domain.Profile) bool {
	return func(p *domain.Profile) bool {
		return p.Contact != nil && strings.TrimSpace(get(p.Contact)) != ""
	}
}

var checklist = []check{
	{"firstName", true, personal(func(d *domain.PersonalDetails) string { return d.FirstName })},
	{"lastName", true, personal(func(d *domain.PersonalDetails) string { return d.LastName })},
	{"passOutYear", true, func(p *domain.Profile) bool { return p.Personal != nil && p.Personal.PassOutYear > 0 }},
	{"dob", true, personal(func(d *domain.PersonalDetails) string { return d.DOB })},
	{"bloodGroup", true, personal(func(d *domain.PersonalDetails) string { return d.BloodGroup })},
	{"email", true, func(p *domain.Profile) bool { return strings.TrimSpace(p.Email) != "" }},
	{"highestQualification", true, personal(func(d *domain.PersonalDetails) string { return d.HighestQualification })},
	{"presentAddress.city", true, contact(func(d *domain.ContactDetails) string { return d.PresentCity })},
	{"presentAddress.state", true, contact(func(d *domain.ContactDetails) string { return d.PresentState })},
	{"presentAddress.country", true, contact(func(d *domain.ContactDetails) string { return d.PresentCountry })},
	{"presentAddress.pincode", true, contact(func(d *domain.ContactDetails) string { return d.PresentPincode })},
	{"mobile", true, contact(func(d *domain.ContactDetails) string { return d.Mobile })},

	{"profilePhoto", false, personal(func(d *domain.PersonalDetails) string { return d.ProfilePhotoURL })},
	{"altEmail", false, personal(func(d *domain.PersonalDetails) string { return d.AltEmail })},
	{"telephone", false, contact(func(d *domain.ContactDetails) string { return d.Telephone })},
	{"permanentAddress", false, func(p *domain.Profile) bool {
		if p.Contact == nil {
			return false
		}
		c := p.Contact
		return c.SameAsPresentAddress || (c.PermanentCity != "" && c.PermanentState != "" && c.PermanentCountry != "" && c.PermanentPincode != "")
	}},
	{"experience", false, func(p *domain.Profile) bool { return len(p.Employees)+len(p.Ventures) > 0 }},
}

// Total is the size of the checklist.
func Total() int { return len(checklist) }

func Calculate(p *domain.Profile) Result {
	res := Result{MissingRequired: []string{}, MissingOptional: []string{}}
	if p == nil {
		res.Band = BandStarted
		for _, c := range checklist {
			res.appendMissing(c)
		}
		return res
	}

	filled := 0
	for _, c := range checklist {
		if c.filled(p) {
			filled++
			continue
		}
		res.appendMissing(c)
	}
	res.Percentage = int(math.Round(float64(filled) * 100 / float64(len(checklist))))
	res.Band = BandFor(res.Percentage)
	return res
}

func (r *Result) appendMissing(c check) {
	if c.required {
		r.MissingRequired = append(r.MissingRequired, c.name)
		return
	}
	r.MissingOptional = append(r.MissingOptional, c.name)
}

func BandFor(pct int) Band {
	switch {
	case pct >= 100:
		return BandComplete
	case pct >= 70:
		return BandAlmost
	case pct >= 50:
		return BandHalfway
	default:
		return BandStarted
	}
}
