package request

// EnrollRequest is the request body for enrolling a competitor
type EnrollRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	College  string `json:"college,omitempty"`
	Gender   string `json:"gender,omitempty"`
}
