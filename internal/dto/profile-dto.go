package dto

import (
	"github.com/dteaa/membership_service/internal/completeness"
	"github.com/dteaa/membership_service/internal/domain"
)

type ProfileResponse struct {
	Profile      *domain.Profile     `json:"profile"`
	Completeness completeness.Result `json:"completeness"`
}

// CardResponse carries what the membership card renderer needs.
type CardResponse struct {
	AlumniID        string `json:"alumni_id"`
	FullName        string `json:"full_name"`
	PassOutYear     int    `json:"pass_out_year"`
	BloodGroup      string `json:"blood_group"`
	Mobile          string `json:"mobile"`
	Email           string `json:"email"`
	City            string `json:"city"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	Status          string `json:"status"`
	ValidFrom       string `json:"valid_from,omitempty"`
}

// DirectoryEntry is a verified member as others see them; hidden fields are empty.
type DirectoryEntry struct {
	UserID          string `json:"user_id"`
	AlumniID        string `json:"alumni_id"`
	FullName        string `json:"full_name"`
	PassOutYear     int    `json:"pass_out_year"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	Email           string `json:"email,omitempty"`
	Mobile          string `json:"mobile,omitempty"`
	Company         string `json:"company,omitempty"`
	Designation     string `json:"designation,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Country         string `json:"country,omitempty"`
}
