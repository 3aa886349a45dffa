package models

// Problem is a single failed field rule, reported to the user next to the field.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
