package models

// DefaultVarietyName is the sentinel variety used when a farm has no chosen
// variety or the chosen variety cannot be resolved
const DefaultVarietyName = "Local"

// PepperVariety represents a cultivated black pepper variety
type PepperVariety struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	MaturityMonths int    `json:"maturity_months,omitempty"`
}
