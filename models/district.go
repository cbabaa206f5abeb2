package models

// District represents an administrative district used to scope knowledge
// and farm locations
type District struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Province string `json:"province"`
}
