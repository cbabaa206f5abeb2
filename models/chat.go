package models

// ChatResponse represents a grounded answer to a farming question.
// Sources lists the distinct titles of the knowledge entries the reply was
// grounded on, in first-seen order; it is empty when the fallback or
// unavailability reply is returned.
type ChatResponse struct {
	Reply   string   `json:"reply"`
	Sources []string `json:"sources"`
}
