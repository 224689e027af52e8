package models

import "time"

// LocationSample is one immutable GPS fix reported by a booking participant.
type LocationSample struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	UserID     int64     `json:"userId"`
	Role       string    `json:"role"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	Altitude   *float64  `json:"altitude,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	Heading    *float64  `json:"heading,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

// ValidCoordinates checks the WGS84 envelope.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
