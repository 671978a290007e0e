package models

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Message   string `json:"message" validate:"required,max=2000"`
	Timestamp string `json:"timestamp" validate:"omitempty,max=64"`
	Room      string `json:"room" validate:"omitempty,max=100"`
}

// Feedback is a stored feedback entry as returned by GET /api/feedbacks.
type Feedback struct {
	ID        string `json:"id"`
	Rating    int    `json:"rating"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Room      string `json:"room"`
}
