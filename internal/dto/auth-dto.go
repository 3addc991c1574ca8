package dto

// CurrentSession is the authenticated identity attached to a request.
type CurrentSession struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
