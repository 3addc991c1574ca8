package dto

const (
	EventProfileSubmitted = "profile.submitted"
	EventProfileVerified  = "profile.verified"
	EventProfileRejected  = "profile.rejected"
)

// ProfileEvent is published on the membership topic and consumed by the mailer.
type ProfileEvent struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	AlumniID   string `json:"alumni_id"`
	Comments   string `json:"comments,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
