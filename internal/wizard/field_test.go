package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldPath(t *testing.T) {
	f, err := ParseFieldPath("contact.presentAddress.city")
	require.NoError(t, err)
	assert.Equal(t, PresentCity, f)
	assert.Equal(t, "contact.presentAddress.city", f.String())

	_, err = ParseFieldPath("personal.nickname")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = ParseFieldPath("")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldPath_EveryFieldHasAName(t *testing.T) {
	for f := PersonalFirstName; f < fieldCount; f++ {
		parsed, err := ParseFieldPath(f.String())
		require.NoError(t, err, "field %d", f)
		assert.Equal(t, f, parsed)
	}
}

func TestErrors_JSONKeysAreWireNames(t *testing.T) {
	raw, err := json.Marshal(Errors{PresentPincode: "Pincode is required"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"contact.presentAddress.pincode":"Pincode is required"}`, string(raw))

	var back Errors
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "Pincode is required", back[PresentPincode])
}

func TestSet_Scalars(t *testing.T) {
	s := NewFormState()
	require.NoError(t, s.Set(PersonalFirstName, "Asha"))
	require.NoError(t, s.Set(ContactMobile, "+919043672733"))
	require.NoError(t, s.Set(OpenToWorkTechnicalSkills, "Go"))

	assert.Equal(t, "Asha", s.Get(PersonalFirstName))
	assert.Equal(t, "+919043672733", s.Contact.Mobile)
	assert.Equal(t, "Go", s.Experience.OpenToWorkDetails.TechnicalSkills)
}

func TestSet_Bools(t *testing.T) {
	s := NewFormState()
	require.NoError(t, s.Set(PrivacyShowPhone, "true"))
	assert.True(t, s.Privacy.ShowPhone)
	assert.Equal(t, "true", s.Get(PrivacyShowPhone))

	err := s.Set(PrivacyShowPhone, "yes please")
	assert.ErrorIs(t, err, ErrInvalidBool)
	assert.True(t, s.Privacy.ShowPhone)
}

func TestSet_EmailIsNeverClientWritable(t *testing.T) {
	s := NewFormState()
	assert.ErrorIs(t, s.Set(PersonalEmail, "someone@example.com"), ErrImmutableField)
	assert.Empty(t, s.Personal.Email)

	s.Prefill("Asha@Example.com", "")
	assert.Equal(t, "asha@example.com", s.Personal.Email)
	assert.ErrorIs(t, s.Set(PersonalEmail, "other@example.com"), ErrImmutableField)
	assert.ErrorIs(t, s.Set(PersonalEmail, "asha@example.com"), ErrImmutableField)
	assert.Equal(t, "asha@example.com", s.Personal.Email)
}

func TestSet_TrimsScalars(t *testing.T) {
	s := NewFormState()
	require.NoError(t, s.Set(PersonalPassOutYear, " 1999 "))
	require.NoError(t, s.Set(ContactMobile, "\t+919043672733\n"))
	assert.Equal(t, "1999", s.Personal.PassOutYear)
	assert.Equal(t, "+919043672733", s.Contact.Mobile)

	require.NoError(t, s.Set(PrivacyShowPhone, " true "))
	assert.True(t, s.Privacy.ShowPhone)
}

func TestSet_SelectOptions(t *testing.T) {
	tests := []struct {
		field FieldPath
		value string
		ok    bool
	}{
		{PersonalBloodGroup, "AB-", true},
		{PersonalBloodGroup, " O+ ", true},
		{PersonalBloodGroup, "", true},
		{PersonalBloodGroup, "Unknown-Type", false},
		{PersonalBloodGroup, "o+", false},
		{PersonalHighestQualification, "Master's Degree", true},
		{PersonalHighestQualification, "PhD", false},
	}
	for _, tt := range tests {
		t.Run(tt.field.String()+"="+tt.value, func(t *testing.T) {
			s := NewFormState()
			err := s.Set(tt.field, tt.value)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidOption)
			assert.Empty(t, s.Get(tt.field))
		})
	}
}

func TestSet_UnknownField(t *testing.T) {
	s := NewFormState()
	assert.ErrorIs(t, s.Set(FieldUnknown, "x"), ErrUnknownField)
	assert.ErrorIs(t, s.Set(PaymentReceipt, "x"), ErrUnknownField)
}

func TestSet_AddressCascade(t *testing.T) {
	s := NewFormState()
	require.NoError(t, s.Set(PresentCountry, "India"))
	require.NoError(t, s.Set(PresentState, "Tamil Nadu"))
	require.NoError(t, s.Set(PresentCity, "Chennai"))

	require.NoError(t, s.Set(PresentState, "Tamil Nadu"))
	assert.Equal(t, "Chennai", s.Contact.PresentAddress.City, "same value keeps the city")

	require.NoError(t, s.Set(PresentState, "Karnataka"))
	assert.Equal(t, "", s.Contact.PresentAddress.City)

	require.NoError(t, s.Set(PresentCity, "Bengaluru"))
	require.NoError(t, s.Set(PresentCountry, "United States"))
	assert.Equal(t, Address{Country: "United States"}, s.Contact.PresentAddress)
}

func TestSet_SameAsPresentCopiesByValue(t *testing.T) {
	s := NewFormState()
	s.Contact.PresentAddress = Address{City: "Chennai", State: "Tamil Nadu", Country: "India", Pincode: "600001"}

	require.NoError(t, s.Set(ContactSameAsPresent, "true"))
	assert.Equal(t, s.Contact.PresentAddress, s.Contact.PermanentAddress)

	require.NoError(t, s.Set(PresentPincode, "600002"))
	assert.Equal(t, "600001", s.Contact.PermanentAddress.Pincode)

	require.NoError(t, s.Set(ContactSameAsPresent, "false"))
	require.NoError(t, s.Set(ContactSameAsPresent, "true"))
	assert.Equal(t, "600002", s.Contact.PermanentAddress.Pincode)
}

func TestPrefill_FillsBlankNamesOnly(t *testing.T) {
	s := NewFormState()
	s.Personal.LastName = "Kumar"
	s.Prefill("a@b.co", "Asha Rani")
	assert.Equal(t, "Asha", s.Personal.FirstName)
	assert.Equal(t, "Kumar", s.Personal.LastName)
}
