package httpgin

import "github.com/kirinyoku/aero-go/internal/domain"

type RequestCodeRequest struct {
	Username string `json:"username" binding:"required"`
	Purpose  string `json:"purpose" binding:"required,oneof=register login"`
}

type ConfirmRegisterRequest struct {
	Username   string `json:"username" binding:"required"`
	Code       string `json:"code" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	MiddleName string `json:"middle_name"`
	PassportNo string `json:"passport_no" binding:"required"`
	BirthDate  string `json:"birth_date" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
}

type ConfirmLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

type SelectSeatRequest struct {
	Leg      string  `json:"leg" binding:"omitempty,oneof=outbound return"`
	FlightID int64   `json:"flight_id" binding:"required"`
	SeatNo   string  `json:"seat_no" binding:"required"`
	PriceUSD float64 `json:"price_usd"`
}

type ClearSeatRequest struct {
	Leg string `json:"leg" binding:"omitempty,oneof=outbound return"`
}

type ConfirmBookingRequest struct {
	Code string `json:"code" binding:"required"`
}

type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

type IdentityResponse struct {
	Username    string `json:"username"`
	PassengerID int64  `json:"passenger_id,omitempty"`
}

type SessionResponse struct {
	Username   string                    `json:"username,omitempty"`
	Flow       domain.FlowState          `json:"flow"`
	Pending    string                    `json:"pending_purpose,omitempty"`
	Selections []domain.BookingSelection `json:"selections,omitempty"`
	Language   string                    `json:"language,omitempty"`
}

// SeatView is one button in the rendered grid.
type SeatView struct {
	Seat     string `json:"seat"`
	Taken    bool   `json:"taken"`
	Selected bool   `json:"selected"`
}

// SeatMapResponse groups the seats into visual rows of six.
type SeatMapResponse struct {
	FlightID int64        `json:"flight_id"`
	Capacity int          `json:"capacity"`
	Rows     [][]SeatView `json:"rows"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
