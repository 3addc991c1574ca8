package dto

type RejectProfileRequest struct {
	Comments string `json:"comments" example:"receipt is unreadable"`
}

type PendingProfileResponse struct {
	UserID      string `json:"user_id"`
	AlumniID    string `json:"alumni_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PassOutYear int    `json:"pass_out_year"`
	ReceiptURL  string `json:"receipt_url"`
	SubmittedAt string `json:"submitted_at"`
}
