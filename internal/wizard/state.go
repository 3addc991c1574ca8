// Package wizard holds the registration / profile-edit form state, its field rules and the
// step controller shared by both flows.
package wizard

import "strings"

var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

var Qualifications = []string{"Diploma", "Bachelor's Degree", "Master's Degree", "Doctorate", "Other"}

// RequiresSpecialization reports whether the specialization input is shown for q.
func RequiresSpecialization(q string) bool {
	switch q {
	case "Bachelor's Degree", "Master's Degree", "Doctorate", "Other":
		return true
	}
	return false
}

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

func (a *Attachment) Empty() bool {
	return a == nil || len(a.Data) == 0
}

type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

type Personal struct {
	FirstName            string      `json:"firstName"`
	LastName             string      `json:"lastName"`
	PassOutYear          string      `json:"passOutYear"`
	DOB                  string      `json:"dob"`
	BloodGroup           string      `json:"bloodGroup"`
	Email                string      `json:"email"`
	AltEmail             string      `json:"altEmail"`
	HighestQualification string      `json:"highestQualification"`
	Specialization       string      `json:"specialization"`
	ProfilePhoto         *Attachment `json:"profilePhoto,omitempty"`
	// ProfilePhotoURL is the already stored photo when editing.
	ProfilePhotoURL string `json:"profilePhotoUrl,omitempty"`
}

type Contact struct {
	PresentAddress       Address `json:"presentAddress"`
	PermanentAddress     Address `json:"permanentAddress"`
	SameAsPresentAddress bool    `json:"sameAsPresentAddress"`
	Mobile               string  `json:"mobile"`
	Telephone            string  `json:"telephone"`
}

type EmployeeEntry struct {
	ID                int64  `json:"id"`
	CompanyName       string `json:"companyName"`
	Designation       string `json:"designation"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	IsCurrentEmployer bool   `json:"isCurrentEmployer"`
	City              string `json:"city"`
	State             string `json:"state"`
	Country           string `json:"country"`
}

type EntrepreneurEntry struct {
	ID               int64  `json:"id"`
	CompanyName      string `json:"companyName"`
	NatureOfBusiness string `json:"natureOfBusiness"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
}

type OpenToWorkDetails struct {
	TechnicalSkills string `json:"technicalSkills"`
	Certifications  string `json:"certifications"`
	SoftSkills      string `json:"softSkills"`
	Other           string `json:"other"`
}

type Experience struct {
	Employee          []EmployeeEntry     `json:"employee"`
	Entrepreneur      []EntrepreneurEntry `json:"entrepreneur"`
	IsOpenToWork      bool                `json:"isOpenToWork"`
	OpenToWorkDetails OpenToWorkDetails   `json:"openToWorkDetails"`
}

type Privacy struct {
	ShowEmail    bool `json:"showEmail"`
	ShowPhone    bool `json:"showPhone"`
	ShowCompany  bool `json:"showCompany"`
	ShowLocation bool `json:"showLocation"`
}

func DefaultPrivacy() Privacy {
	return Privacy{ShowEmail: true}
}

type Payment struct {
	Receipt *Attachment `json:"receipt,omitempty"`
}

// FormState is one member's in-progress registration or edit.
type FormState struct {
	Personal   Personal   `json:"personal"`
	Contact    Contact    `json:"contact"`
	Experience Experience `json:"experience"`
	Privacy    Privacy    `json:"privacy"`
	Payment    Payment    `json:"payment"`
}

func NewFormState() *FormState {
	return &FormState{
		Experience: Experience{
			Employee:     []EmployeeEntry{},
			Entrepreneur: []EntrepreneurEntry{},
		},
		Privacy: DefaultPrivacy(),
	}
}

// Prefill copies identity data into the state. Email is always taken from identity;
// names only fill blanks.
func (s *FormState) Prefill(email, displayName string) {
	s.Personal.Email = strings.TrimSpace(strings.ToLower(email))

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return
	}
	first, last, _ := strings.Cut(displayName, " ")
	if s.Personal.FirstName == "" {
		s.Personal.FirstName = strings.TrimSpace(first)
	}
	if s.Personal.LastName == "" {
		s.Personal.LastName = strings.TrimSpace(last)
	}
}

// Normalize restores invariants a decoded snapshot may have lost.
func (s *FormState) Normalize() {
	if s.Experience.Employee == nil {
		s.Experience.Employee = []EmployeeEntry{}
	}
	if s.Experience.Entrepreneur == nil {
		s.Experience.Entrepreneur = []EntrepreneurEntry{}
	}
}
