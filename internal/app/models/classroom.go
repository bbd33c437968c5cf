package models

// Classroom is a physical room sessions take place in
type Classroom struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" example:"P.101"`
	Capacity  int     `json:"capacity" example:"25"`
	Location  *string `json:"location,omitempty" example:"Tầng 1"`
	Equipment *string `json:"equipment,omitempty" example:"Máy chiếu, bảng trắng"`
	Status    string  `json:"status" example:"available"`
}
