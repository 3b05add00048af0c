package domain

type Beat struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	District    string `json:"district"`
	Description string `json:"description,omitempty"`
}
