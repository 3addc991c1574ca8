package domain

import "time"

type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusVerified ProfileStatus = "verified"
	ProfileStatusRejected ProfileStatus = "rejected"
)

// Profile is the root record; ID is the identity provider's user id.
type Profile struct {
	ID                string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	AlumniID          string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"alumni_id"`
	Email             string        `gorm:"type:varchar(255);not null;index" json:"email"`
	Status            ProfileStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	RejectionComments *string       `gorm:"type:text" json:"rejection_comments,omitempty"`
	PaymentReceiptURL string        `gorm:"type:text" json:"payment_receipt_url,omitempty"`
	VerifiedAt        *time.Time    `json:"verified_at,omitempty"`
	VerifiedBy        *string       `gorm:"type:varchar(64)" json:"verified_by,omitempty"`

	Personal     *PersonalDetails         `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"personal,omitempty"`
	Contact      *ContactDetails          `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"contact,omitempty"`
	Employees    []EmployeeExperience     `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employees"`
	Ventures     []EntrepreneurExperience `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"ventures"`
	OpenToWork   *OpenToWork              `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"open_to_work,omitempty"`
	Privacy      *PrivacySettings         `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"privacy,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

type PersonalDetails struct {
	ID                   uint   `gorm:"primaryKey" json:"-"`
	ProfileID            string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	FirstName            string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName             string `gorm:"type:varchar(100);not null" json:"last_name"`
	PassOutYear          int    `gorm:"not null;index" json:"pass_out_year"`
	DOB                  string `gorm:"type:varchar(10)" json:"dob"`
	BloodGroup           string `gorm:"type:varchar(3)" json:"blood_group"`
	AltEmail             string `gorm:"type:varchar(255)" json:"alt_email,omitempty"`
	HighestQualification string `gorm:"type:varchar(50)" json:"highest_qualification"`
	Specialization       string `gorm:"type:varchar(150)" json:"specialization,omitempty"`
	ProfilePhotoURL      string `gorm:"type:text" json:"profile_photo_url,omitempty"`
}

type ContactDetails struct {
	ID                   uint   `gorm:"primaryKey" json:"-"`
	ProfileID            string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	PresentCity          string `gorm:"type:varchar(100)" json:"present_city"`
	PresentState         string `gorm:"type:varchar(100)" json:"present_state"`
	PresentCountry       string `gorm:"type:varchar(100)" json:"present_country"`
	PresentPincode       string `gorm:"type:varchar(6)" json:"present_pincode"`
	PermanentCity        string `gorm:"type:varchar(100)" json:"permanent_city"`
	PermanentState       string `gorm:"type:varchar(100)" json:"permanent_state"`
	PermanentCountry     string `gorm:"type:varchar(100)" json:"permanent_country"`
	PermanentPincode     string `gorm:"type:varchar(6)" json:"permanent_pincode"`
	SameAsPresentAddress bool   `json:"same_as_present_address"`
	Mobile               string `gorm:"type:varchar(16)" json:"mobile"`
	Telephone            string `gorm:"type:varchar(20)" json:"telephone,omitempty"`
}

type EmployeeExperience struct {
	ID                uint   `gorm:"primaryKey" json:"-"`
	ProfileID         string `gorm:"type:varchar(64);index;not null" json:"-"`
	EntryID           int64  `json:"entry_id"`
	CompanyName       string `gorm:"type:varchar(200)" json:"company_name"`
	Position          string `gorm:"type:varchar(150)" json:"position"`
	StartDate         string `gorm:"type:varchar(10)" json:"start_date"`
	EndDate           string `gorm:"type:varchar(10)" json:"end_date,omitempty"`
	IsCurrentEmployer bool   `json:"is_current_employer"`
	City              string `gorm:"type:varchar(100)" json:"city"`
	State             string `gorm:"type:varchar(100)" json:"state"`
	Country           string `gorm:"type:varchar(100)" json:"country"`
}

type EntrepreneurExperience struct {
	ID               uint   `gorm:"primaryKey" json:"-"`
	ProfileID        string `gorm:"type:varchar(64);index;not null" json:"-"`
	EntryID          int64  `json:"entry_id"`
	CompanyName      string `gorm:"type:varchar(200)" json:"company_name"`
	NatureOfBusiness string `gorm:"type:varchar(200)" json:"nature_of_business"`
	City             string `gorm:"type:varchar(100)" json:"city"`
	State            string `gorm:"type:varchar(100)" json:"state"`
	Country          string `gorm:"type:varchar(100)" json:"country"`
}

type OpenToWork struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	ProfileID       string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	IsOpenToWork    bool   `json:"is_open_to_work"`
	TechnicalSkills string `gorm:"type:text" json:"technical_skills,omitempty"`
	Certifications  string `gorm:"type:text" json:"certifications,omitempty"`
	SoftSkills      string `gorm:"type:text" json:"soft_skills,omitempty"`
	Other           string `gorm:"type:text" json:"other,omitempty"`
}

type PrivacySettings struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	ProfileID    string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ShowEmail    bool   `json:"show_email"`
	ShowPhone    bool   `json:"show_phone"`
	ShowCompany  bool   `json:"show_company"`
	ShowLocation bool   `json:"show_location"`
}
