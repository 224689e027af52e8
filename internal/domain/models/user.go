package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Employee is the staff subtype row; Position/Department feed the HR check.
type Employee struct {
	UserID     int64  `json:"userId"`
	Position   string `json:"position"`
	Department string `json:"department"`
	HireDate   string `json:"hireDate"`
}

type Tour struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	TourGuideID *int64  `json:"tourGuideId,omitempty"`
}

type Vehicle struct {
	ID       int64  `json:"id"`
	PlateNo  string `json:"plateNo"`
	Model    string `json:"model"`
	Capacity int    `json:"capacity"`
	DriverID *int64 `json:"driverId,omitempty"`
}
