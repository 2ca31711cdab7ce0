package models

// Department is reference data shared by students and faculty
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
