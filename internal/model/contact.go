package model

// ContactMessage is a submission of the site's contact form.
type ContactMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Category string `json:"category"`
	Message  string `json:"message"`
}
