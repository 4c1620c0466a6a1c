package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirinyoku/aero-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, profile Profile, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Profile: profile}, testLogger())
}

func TestStartAuth_LabWireFormat(t *testing.T) {
	var got map[string]any

	c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/start", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"request_id": 42})
	})

	reqID, err := c.StartAuth(context.Background(), "@kain_cr", domain.PurposeRegister)
	require.NoError(t, err)

	assert.Equal(t, "42", reqID)
	assert.Equal(t, "@kain_cr", got["telegram_username"])
	// the lab backend calls the register purpose "registration"
	assert.Equal(t, "registration", got["purpose"])
}

func TestStartAuth_AltWireFormat(t *testing.T) {
	var got map[string]any

	c := newTestClient(t, AltProfile(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/request-code", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	})

	reqID, err := c.StartAuth(context.Background(), "@kain_cr", domain.PurposeLogin)
	require.NoError(t, err)

	assert.Empty(t, reqID)
	assert.Equal(t, "@kain_cr", got["username"])
	assert.Equal(t, "login", got["purpose"])
}

func TestConfirmRegister_PassportFieldPerProfile(t *testing.T) {
	form := domain.RegistrationForm{
		LastName:   "Crane",
		FirstName:  "Kain",
		PassportNo: "MP1234567",
		BirthDate:  "1990-01-02",
		Phone:      "+375291112233",
		Email:      "kain@example.com",
	}

	t.Run("lab", func(t *testing.T) {
		var got map[string]any
		c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(map[string]any{"passenger_id": 7})
		})

		id, err := c.ConfirmRegister(context.Background(), "@kain_cr", "123456", "42", form)
		require.NoError(t, err)

		assert.Equal(t, int64(7), id.PassengerID)
		assert.Equal(t, "MP1234567", got["passport_no"])
		assert.Equal(t, "42", got["auth_request_id"])
	})

	t.Run("alt", func(t *testing.T) {
		var got map[string]any
		c := newTestClient(t, AltProfile(), func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(map[string]any{"token": "tok"})
		})

		id, err := c.ConfirmRegister(context.Background(), "@kain_cr", "x", "", form)
		require.NoError(t, err)

		assert.Equal(t, "tok", id.Token)
		assert.Equal(t, "MP1234567", got["passport_id"])
		assert.NotContains(t, got, "auth_request_id")
	})
}

func TestConfirmLogin_NotSupportedByLabProfile(t *testing.T) {
	c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no call expected")
	})

	_, err := c.ConfirmLogin(context.Background(), "@kain_cr", "123456", "")
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestSearchFlights_ResponseShapes(t *testing.T) {
	flights := []domain.Flight{{FlightID: 1, FlightNumber: "B2-101"}}

	tests := []struct {
		name string
		body any
	}{
		{"wrapped", map[string]any{"flights": flights}},
		{"items", map[string]any{"items": flights}},
		{"bare array", flights},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Minsk", r.URL.Query().Get("departure_city"))
				assert.Equal(t, "2025-12-10", r.URL.Query().Get("date"))
				json.NewEncoder(w).Encode(tt.body)
			})

			got, err := c.SearchFlights(context.Background(), FlightQuery{
				DepartureCity: "Minsk",
				ArrivalCity:   "Warsaw",
				Date:          "2025-12-10",
			})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "B2-101", got[0].FlightNumber)
		})
	}
}

func TestSeatMap_Normalized(t *testing.T) {
	c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flights/9/seats", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"capacity": 12, "taken": []string{"1A", "2C"}})
	})

	m, err := c.SeatMap(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, 12, m.Capacity)
	assert.True(t, m.IsTaken("1A"))
	assert.True(t, m.IsTaken("2C"))
	assert.False(t, m.IsTaken("1B"))
}

func TestStartBooking_SingleLeg(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	})

	_, err := c.StartBooking(context.Background(), "@kain_cr", []domain.BookingSelection{
		{Leg: domain.LegOutbound, FlightID: 9, SeatNo: "2B", PriceUSD: 120},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(9), got["flight_id"])
	assert.Equal(t, "2B", got["seat_no"])
	assert.Equal(t, float64(120), got["price_usd"])
}

func TestStartBooking_PairedLegs(t *testing.T) {
	profile := LabProfile()
	profile.PairedLegs = true

	var got map[string]any
	c := newTestClient(t, profile, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	})

	_, err := c.StartBooking(context.Background(), "@kain_cr", []domain.BookingSelection{
		{Leg: domain.LegReturn, FlightID: 10, SeatNo: "3C", PriceUSD: 130},
		{Leg: domain.LegOutbound, FlightID: 9, SeatNo: "2B", PriceUSD: 120},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(9), got["outbound_flight_id"])
	assert.Equal(t, "2B", got["outbound_seat"])
	assert.Equal(t, float64(10), got["return_flight_id"])
	assert.Equal(t, "3C", got["return_seat"])
	assert.Equal(t, float64(250), got["price_usd"])
}

func TestMyFlights_WrapperKeys(t *testing.T) {
	tickets := []domain.Ticket{{FlightNumber: "B2-101", SeatNo: "2B", PriceUSD: 120}}

	for _, key := range []string{"items", "tickets", "flights"} {
		t.Run(key, func(t *testing.T) {
			c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "@kain_cr", r.URL.Query().Get("telegram_username"))
				json.NewEncoder(w).Encode(map[string]any{key: tickets})
			})

			got, err := c.MyFlights(context.Background(), "@kain_cr")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "2B", got[0].SeatNo)
		})
	}
}

func TestDo_ErrorDetailExtraction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", 400, `{"detail":"invalid code"}`, "invalid code"},
		{"validation list", 422, `{"detail":[{"msg":"field required"},{"msg":"second"}]}`, "field required"},
		{"message field", 400, `{"message":"bad input"}`, "bad input"},
		{"non-json body", 500, `<html>boom</html>`, "HTTP 500"},
		{"empty body", 404, ``, "HTTP 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, LabProfile(), func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := c.ConfirmBooking(context.Background(), "@kain_cr", "123456", "")
			require.Error(t, err)

			apiErr, ok := AsAPIError(err)
			require.True(t, ok, "expected APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Detail)
		})
	}
}

func TestDo_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(Config{BaseURL: srv.URL, Profile: LabProfile()}, testLogger())

	_, err := c.SearchFlights(context.Background(), FlightQuery{})
	assert.ErrorIs(t, err, ErrUnreachable)
}
