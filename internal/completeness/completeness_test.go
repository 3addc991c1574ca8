package completeness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dteaa/membership_service/internal/domain"
)

func requiredOnly() *domain.Profile {
	return &domain.Profile{
		Email: "a@b.co",
		Personal: &domain.PersonalDetails{
			FirstName: "Asha", LastName: "Rani", PassOutYear: 1999, DOB: "1977-04-02",
			BloodGroup: "O+", HighestQualification: "Diploma",
		},
		Contact: &domain.ContactDetails{
			PresentCity: "Chennai", PresentState: "Tamil Nadu", PresentCountry: "India",
			PresentPincode: "600001", Mobile: "+919043672733",
		},
	}
}

func TestCalculate_Empty(t *testing.T) {
	res := Calculate(&domain.Profile{})
	assert.Equal(t, 0, res.Percentage)
	assert.Equal(t, BandStarted, res.Band)
	assert.Len(t, res.MissingRequired, 12)
	assert.Len(t, res.MissingOptional, 5)
	assert.Equal(t, 17, Total())
}

func TestCalculate_Nil(t *testing.T) {
	res := Calculate(nil)
	assert.Equal(t, 0, res.Percentage)
	assert.Len(t, res.MissingRequired, 12)
}

func TestCalculate_RequiredOnly(t *testing.T) {
	res := Calculate(requiredOnly())
	assert.Empty(t, res.MissingRequired)
	assert.Equal(t, []string{"profilePhoto", "altEmail", "telephone", "permanentAddress", "experience"}, res.MissingOptional)
	// 12 of 17
	assert.Equal(t, 71, res.Percentage)
	assert.Equal(t, BandAlmost, res.Band)
}

func TestCalculate_Complete(t *testing.T) {
	p := requiredOnly()
	p.Personal.ProfilePhotoURL = "https://cdn/x.jpg"
	p.Personal.AltEmail = "alt@b.co"
	p.Contact.Telephone = "0441234567"
	p.Contact.SameAsPresentAddress = true
	p.Ventures = []domain.EntrepreneurExperience{{CompanyName: "Startup"}}

	res := Calculate(p)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, BandComplete, res.Band)
	assert.Empty(t, res.MissingOptional)
}

func TestCalculate_PartialPermanentAddressDoesNotCount(t *testing.T) {
	p := requiredOnly()
	p.Contact.PermanentCity = "Madurai"
	res := Calculate(p)
	assert.Contains(t, res.MissingOptional, "permanentAddress")
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandComplete, BandFor(100))
	assert.Equal(t, BandAlmost, BandFor(99))
	assert.Equal(t, BandAlmost, BandFor(70))
	assert.Equal(t, BandHalfway, BandFor(69))
	assert.Equal(t, BandHalfway, BandFor(50))
	assert.Equal(t, BandStarted, BandFor(49))
}
