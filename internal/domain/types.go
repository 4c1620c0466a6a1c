package domain

// VerificationPurpose names one of the independent request-code/confirm flows.
// Flows of different purposes never interleave within a session.
type VerificationPurpose string

const (
	PurposeRegister VerificationPurpose = "register"
	PurposeLogin    VerificationPurpose = "login"
	PurposeBooking  VerificationPurpose = "booking"
)

// FlowState tracks a single verification flow.
type FlowState string

const (
	FlowIdle          FlowState = "idle"
	FlowCodeRequested FlowState = "code_requested"
	FlowConfirmed     FlowState = "confirmed"
)

// Leg distinguishes the two bookable flight legs.
type Leg string

const (
	LegOutbound Leg = "outbound"
	LegReturn   Leg = "return"
)

// Identity is the authenticated user. Set on successful code confirmation,
// persisted to the session store, cleared on logout.
type Identity struct {
	Username    string `json:"username"`
	PassengerID int64  `json:"passenger_id,omitempty"`
	Token       string `json:"token,omitempty"`
}

// VerificationRequest is a pending code delivery. RequestID is the opaque
// handle some backends return from the start call and expect echoed on confirm.
type VerificationRequest struct {
	Purpose   VerificationPurpose `json:"purpose"`
	Username  string              `json:"username"`
	RequestID string              `json:"request_id,omitempty"`
}

// Flight is an immutable snapshot from a search response.
type Flight struct {
	FlightID       int64   `json:"flight_id"`
	FlightNumber   string  `json:"flight_number"`
	DepartureCity  string  `json:"departure_city"`
	ArrivalCity    string  `json:"arrival_city"`
	FlightDate     string  `json:"flight_date"`
	FlightTime     string  `json:"flight_time"`
	SeatCapacity   int     `json:"seat_capacity"`
	PriceSuggested float64 `json:"price_suggested"`
	PlaneModel     string  `json:"plane_model"`
}

// SeatMap is the normalized availability picture for one flight.
// Taken holds seat codes; every element is a valid code for Capacity.
type SeatMap struct {
	FlightID int64           `json:"flight_id"`
	Capacity int             `json:"capacity"`
	Taken    map[string]bool `json:"taken"`
}

func (m SeatMap) IsTaken(code string) bool {
	return m.Taken[code]
}

// BookingSelection is a (flight, seat, price) tuple pending confirmation.
type BookingSelection struct {
	Leg      Leg     `json:"leg"`
	FlightID int64   `json:"flight_id"`
	SeatNo   string  `json:"seat_no"`
	PriceUSD float64 `json:"price_usd"`
}

// Ticket is one confirmed booking as listed by the my-flights endpoint.
type Ticket struct {
	TicketID     int64   `json:"ticket_id,omitempty"`
	FlightID     int64   `json:"flight_id,omitempty"`
	FlightNumber string  `json:"flight_number"`
	Route        string  `json:"route"`
	DateTime     string  `json:"dt"`
	PlaneModel   string  `json:"plane_model"`
	SeatNo       string  `json:"seat_no"`
	Status       string  `json:"status,omitempty"`
	PriceUSD     float64 `json:"price_usd"`
}

// RegistrationForm carries the passenger fields for confirm-register.
type RegistrationForm struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	PassportNo string `json:"passport_no"`
	BirthDate  string `json:"birth_date"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}
