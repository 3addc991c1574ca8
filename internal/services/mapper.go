package services

import (
	"strconv"
	"strings"

	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/wizard"
)

// ProfileFromFormState builds the persisted sections from a submitted form.
// Root bookkeeping (alumni id, status, receipt) is left to the caller.
func ProfileFromFormState(userID string, st *wizard.FormState) *domain.Profile {
	year, _ := strconv.Atoi(strings.TrimSpace(st.Personal.PassOutYear))

	p := &domain.Profile{
		ID:    userID,
		Email: st.Personal.Email,
		Personal: &domain.PersonalDetails{
			FirstName:            strings.TrimSpace(st.Personal.FirstName),
			LastName:             strings.TrimSpace(st.Personal.LastName),
			PassOutYear:          year,
			DOB:                  st.Personal.DOB,
			BloodGroup:           st.Personal.BloodGroup,
			AltEmail:             strings.TrimSpace(st.Personal.AltEmail),
			HighestQualification: st.Personal.HighestQualification,
			ProfilePhotoURL:      st.Personal.ProfilePhotoURL,
		},
		Contact: &domain.ContactDetails{
			PresentCity:          st.Contact.PresentAddress.City,
			PresentState:         st.Contact.PresentAddress.State,
			PresentCountry:       st.Contact.PresentAddress.Country,
			PresentPincode:       strings.TrimSpace(st.Contact.PresentAddress.Pincode),
			PermanentCity:        st.Contact.PermanentAddress.City,
			PermanentState:       st.Contact.PermanentAddress.State,
			PermanentCountry:     st.Contact.PermanentAddress.Country,
			PermanentPincode:     strings.TrimSpace(st.Contact.PermanentAddress.Pincode),
			SameAsPresentAddress: st.Contact.SameAsPresentAddress,
			Mobile:               strings.TrimSpace(st.Contact.Mobile),
			Telephone:            strings.TrimSpace(st.Contact.Telephone),
		},
		OpenToWork: &domain.OpenToWork{
			IsOpenToWork:    st.Experience.IsOpenToWork,
			TechnicalSkills: st.Experience.OpenToWorkDetails.TechnicalSkills,
			Certifications:  st.Experience.OpenToWorkDetails.Certifications,
			SoftSkills:      st.Experience.OpenToWorkDetails.SoftSkills,
			Other:           st.Experience.OpenToWorkDetails.Other,
		},
		Privacy: &domain.PrivacySettings{
			ShowEmail:    st.Privacy.ShowEmail,
			ShowPhone:    st.Privacy.ShowPhone,
			ShowCompany:  st.Privacy.ShowCompany,
			ShowLocation: st.Privacy.ShowLocation,
		},
	}
	if wizard.RequiresSpecialization(st.Personal.HighestQualification) {
		p.Personal.Specialization = strings.TrimSpace(st.Personal.Specialization)
	}

	for _, e := range st.Experience.Employee {
		p.Employees = append(p.Employees, domain.EmployeeExperience{
			EntryID:           e.ID,
			CompanyName:       e.CompanyName,
			Position:          e.Designation,
			StartDate:         e.StartDate,
			EndDate:           e.EndDate,
			IsCurrentEmployer: e.IsCurrentEmployer,
			City:              e.City,
			State:             e.State,
			Country:           e.Country,
		})
	}
	for _, e := range st.Experience.Entrepreneur {
		p.Ventures = append(p.Ventures, domain.EntrepreneurExperience{
			EntryID:          e.ID,
			CompanyName:      e.CompanyName,
			NatureOfBusiness: e.NatureOfBusiness,
			City:             e.City,
			State:            e.State,
			Country:          e.Country,
		})
	}
	return p
}

// FormStateFromProfile hydrates the edit form from storage.
func FormStateFromProfile(p *domain.Profile) *wizard.FormState {
	st := wizard.NewFormState()
	st.Personal.Email = p.Email

	if d := p.Personal; d != nil {
		st.Personal.FirstName = d.FirstName
		st.Personal.LastName = d.LastName
		if d.PassOutYear > 0 {
			st.Personal.PassOutYear = strconv.Itoa(d.PassOutYear)
		}
		st.Personal.DOB = d.DOB
		st.Personal.BloodGroup = d.BloodGroup
		st.Personal.AltEmail = d.AltEmail
		st.Personal.HighestQualification = d.HighestQualification
		st.Personal.Specialization = d.Specialization
		st.Personal.ProfilePhotoURL = d.ProfilePhotoURL
	}

	if c := p.Contact; c != nil {
		st.Contact = wizard.Contact{
			PresentAddress: wizard.Address{
				City: c.PresentCity, State: c.PresentState, Country: c.PresentCountry, Pincode: c.PresentPincode,
			},
			PermanentAddress: wizard.Address{
				City: c.PermanentCity, State: c.PermanentState, Country: c.PermanentCountry, Pincode: c.PermanentPincode,
			},
			SameAsPresentAddress: c.SameAsPresentAddress,
			Mobile:               c.Mobile,
			Telephone:            c.Telephone,
		}
	}

	for _, e := range p.Employees {
		st.Experience.Employee = append(st.Experience.Employee, wizard.EmployeeEntry{
			ID:                e.EntryID,
			CompanyName:       e.CompanyName,
			Designation:       e.Position,
			StartDate:         e.StartDate,
			EndDate:           e.EndDate,
			IsCurrentEmployer: e.IsCurrentEmployer,
			City:              e.City,
			State:             e.State,
			Country:           e.Country,
		})
	}
	for _, e := range p.Ventures {
		st.Experience.Entrepreneur = append(st.Experience.Entrepreneur, wizard.EntrepreneurEntry{
			ID:               e.EntryID,
			CompanyName:      e.CompanyName,
			NatureOfBusiness: e.NatureOfBusiness,
			City:             e.City,
			State:            e.State,
			Country:          e.Country,
		})
	}
	if o := p.OpenToWork; o != nil {
		st.Experience.IsOpenToWork = o.IsOpenToWork
		st.Experience.OpenToWorkDetails = wizard.OpenToWorkDetails{
			TechnicalSkills: o.TechnicalSkills,
			Certifications:  o.Certifications,
			SoftSkills:      o.SoftSkills,
			Other:           o.Other,
		}
	}
	if pr := p.Privacy; pr != nil {
		st.Privacy = wizard.Privacy{
			ShowEmail:    pr.ShowEmail,
			ShowPhone:    pr.ShowPhone,
			ShowCompany:  pr.ShowCompany,
			ShowLocation: pr.ShowLocation,
		}
	}
	return st
}

func fullName(p *domain.Profile) string {
	if p.Personal == nil {
		return ""
	}
	return strings.TrimSpace(p.Personal.FirstName + " " + p.Personal.LastName)
}

func firstName(p *domain.Profile) string {
	if p.Personal == nil {
		return ""
	}
	return p.Personal.FirstName
}

// currentCompany picks the current employer, else the first job, else the first venture.
func currentCompany(p *domain.Profile) (company, role string) {
	for _, e := range p.Employees {
		if e.IsCurrentEmployer {
			return e.CompanyName, e.Position
		}
	}
	if len(p.Employees) > 0 {
		return p.Employees[0].CompanyName, p.Employees[0].Position
	}
	if len(p.Ventures) > 0 {
		return p.Ventures[0].CompanyName, p.Ventures[0].NatureOfBusiness
	}
	return "", ""
}

// DirectoryEntryFor renders a verified profile as other members see it.
func DirectoryEntryFor(p *domain.Profile) dto.DirectoryEntry {
	privacy := wizard.DefaultPrivacy()
	if p.Privacy != nil {
		privacy = wizard.Privacy{
			ShowEmail:    p.Privacy.ShowEmail,
			ShowPhone:    p.Privacy.ShowPhone,
			ShowCompany:  p.Privacy.ShowCompany,
			ShowLocation: p.Privacy.ShowLocation,
		}
	}

	entry := dto.DirectoryEntry{
		UserID:   p.ID,
		AlumniID: p.AlumniID,
		FullName: fullName(p),
	}
	if p.Personal != nil {
		entry.PassOutYear = p.Personal.PassOutYear
		entry.ProfilePhotoURL = p.Personal.ProfilePhotoURL
	}
	if privacy.ShowEmail {
		entry.Email = p.Email
	}
	if privacy.ShowPhone && p.Contact != nil {
		entry.Mobile = p.Contact.Mobile
	}
	if privacy.ShowCompany {
		entry.Company, entry.Designation = currentCompany(p)
	}
	if privacy.ShowLocation && p.Contact != nil {
		entry.City = p.Contact.PresentCity
		entry.State = p.Contact.PresentState
		entry.Country = p.Contact.PresentCountry
	}
	return entry
}
