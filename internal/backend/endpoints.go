package backend

import (
	"strconv"
	"strings"

	"github.com/kirinyoku/aero-go/internal/domain"
)

// Endpoint is one remote operation. Path may contain a {id} placeholder.
type Endpoint struct {
	Method string
	Path   string
}

func (e Endpoint) WithID(id int64) string {
	return strings.Replace(e.Path, "{id}", strconv.FormatInt(id, 10), 1)
}

// Zero reports whether the endpoint is absent from the profile. Backends that
// 404 on an operation simply leave it unset.
func (e Endpoint) Zero() bool {
	return e.Path == ""
}

// Fields maps the payload field names the backend variants disagree on.
type Fields struct {
	Username string // "telegram_username" or "username"
	Passport string // "passport_no" or "passport_id"
}

// Profile is the full contract of one backend variant: which endpoints exist,
// what the divergent fields are called, and the small behavioral switches.
// The variants are alternate generations of the same API, so they are modeled
// as data instead of scattered hardcoded paths.
type Profile struct {
	Name string

	StartAuth       Endpoint
	ConfirmRegister Endpoint
	ConfirmLogin    Endpoint
	SearchFlights   Endpoint
	SeatMap         Endpoint
	StartBooking    Endpoint
	ConfirmBooking  Endpoint
	MyFlights       Endpoint

	Fields Fields

	// LooseCode accepts any non-empty verification code instead of the
	// six-digit form the lab backend issues.
	LooseCode bool

	// PairedLegs posts two-leg bookings as outbound_*/return_* field pairs
	// rather than a flight_id/seat_no pair per call.
	PairedLegs bool

	// PurposeNames translates flow purposes to the wire values the backend
	// expects, e.g. the lab backend says "registration" where the UI says
	// "register". Unmapped purposes go over the wire as-is.
	PurposeNames map[domain.VerificationPurpose]string
}

func (p Profile) WirePurpose(purpose domain.VerificationPurpose) string {
	if name, ok := p.PurposeNames[purpose]; ok {
		return name
	}
	return string(purpose)
}

// LabProfile is the authoritative contract: the original lab backend behind
// the GitHub Pages front-end.
func LabProfile() Profile {
	return Profile{
		Name:            "lab",
		StartAuth:       Endpoint{Method: "POST", Path: "/api/auth/start"},
		ConfirmRegister: Endpoint{Method: "POST", Path: "/api/register/complete"},
		SearchFlights:   Endpoint{Method: "GET", Path: "/api/flights"},
		SeatMap:         Endpoint{Method: "GET", Path: "/api/flights/{id}/seats"},
		StartBooking:    Endpoint{Method: "POST", Path: "/api/booking/start"},
		ConfirmBooking:  Endpoint{Method: "POST", Path: "/api/booking/confirm"},
		MyFlights:       Endpoint{Method: "GET", Path: "/api/my/flights"},
		Fields: Fields{
			Username: "telegram_username",
			Passport: "passport_no",
		},
		PurposeNames: map[domain.VerificationPurpose]string{
			domain.PurposeRegister: "registration",
		},
	}
}

// AltProfile is the auth/request-code generation of the backend: login
// support, bearer tokens, and the renamed payload fields.
func AltProfile() Profile {
	return Profile{
		Name:            "alt",
		StartAuth:       Endpoint{Method: "POST", Path: "/api/auth/request-code"},
		ConfirmRegister: Endpoint{Method: "POST", Path: "/api/auth/confirm-register"},
		ConfirmLogin:    Endpoint{Method: "POST", Path: "/api/auth/confirm-login"},
		SearchFlights:   Endpoint{Method: "GET", Path: "/api/flights/search"},
		SeatMap:         Endpoint{Method: "GET", Path: "/api/flights/{id}/seats"},
		StartBooking:    Endpoint{Method: "POST", Path: "/api/booking/request"},
		ConfirmBooking:  Endpoint{Method: "POST", Path: "/api/booking/confirm"},
		MyFlights:       Endpoint{Method: "GET", Path: "/api/my-flights"},
		Fields: Fields{
			Username: "username",
			Passport: "passport_id",
		},
		LooseCode: true,
	}
}

// ProfileByName resolves a built-in profile. Unknown names fall back to lab.
func ProfileByName(name string) Profile {
	switch name {
	case "alt":
		return AltProfile()
	default:
		return LabProfile()
	}
}
