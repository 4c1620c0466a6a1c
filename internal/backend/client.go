package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/kirinyoku/aero-go/internal/domain"
	"github.com/kirinyoku/aero-go/internal/seatmap"
)

const defaultTimeout = 12 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
	Profile Profile
}

// Client talks JSON over HTTP to the remote airline API. It never retries;
// the server is the sole arbiter of code validity and seat races.
type Client struct {
	baseURL string
	profile Profile
	http    *http.Client
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		profile: cfg.Profile,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Profile() Profile {
	return c.profile
}

// FlightQuery is the search-flights filter. Empty fields are omitted.
type FlightQuery struct {
	DepartureCity string `url:"departure_city,omitempty"`
	ArrivalCity   string `url:"arrival_city,omitempty"`
	Date          string `url:"date,omitempty"`
}

// StartAuth asks the backend to deliver a one-time code for the purpose via
// the out-of-band channel. The returned request ID is empty for backends
// that do not issue one.
func (c *Client) StartAuth(ctx context.Context, username string, purpose domain.VerificationPurpose) (string, error) {
	const op = "backend.StartAuth"

	body := map[string]any{
		c.profile.Fields.Username: username,
		"purpose":                 c.profile.WirePurpose(purpose),
	}

	var out struct {
		RequestID json.Number `json:"request_id"`
	}
	if err := c.do(ctx, c.profile.StartAuth, nil, body, &out); err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	return out.RequestID.String(), nil
}

// ConfirmRegister completes registration with the delivered code and the
// passenger form. The response shape varies: the lab backend returns
// passenger_id, the alt one a bearer token.
func (c *Client) ConfirmRegister(
	ctx context.Context,
	username, code, requestID string,
	form domain.RegistrationForm,
) (domain.Identity, error) {
	const op = "backend.ConfirmRegister"

	body := map[string]any{
		c.profile.Fields.Username: username,
		"code":                    code,
		"last_name":               form.LastName,
		"first_name":              form.FirstName,
		"middle_name":             form.MiddleName,
		c.profile.Fields.Passport: form.PassportNo,
		"birth_date":              form.BirthDate,
		"phone":                   form.Phone,
		"email":                   form.Email,
	}
	if requestID != "" {
		body["auth_request_id"] = requestID
	}

	var out struct {
		PassengerID int64  `json:"passenger_id"`
		Token       string `json:"token"`
	}
	if err := c.do(ctx, c.profile.ConfirmRegister, nil, body, &out); err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	return domain.Identity{Username: username, PassengerID: out.PassengerID, Token: out.Token}, nil
}

// ConfirmLogin exchanges a delivered code for a token.
func (c *Client) ConfirmLogin(ctx context.Context, username, code, requestID string) (domain.Identity, error) {
	const op = "backend.ConfirmLogin"

	if c.profile.ConfirmLogin.Zero() {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, ErrNotSupported)
	}

	body := map[string]any{
		c.profile.Fields.Username: username,
		"code":                    code,
	}
	if requestID != "" {
		body["auth_request_id"] = requestID
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, c.profile.ConfirmLogin, nil, body, &out); err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	return domain.Identity{Username: username, Token: out.Token}, nil
}

// SearchFlights lists flights matching the query. Both the wrapped
// {flights: [...]} and the bare-array response shapes are accepted.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) ([]domain.Flight, error) {
	const op = "backend.SearchFlights"

	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var raw json.RawMessage
	if err := c.do(ctx, c.profile.SearchFlights, values, nil, &raw); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var wrapped struct {
		Flights []domain.Flight `json:"flights"`
		Items   []domain.Flight `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.Flights != nil {
			return wrapped.Flights, nil
		}
		if wrapped.Items != nil {
			return wrapped.Items, nil
		}
	}

	var list []domain.Flight
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%s: malformed flights response: %w", op, err)
	}
	return list, nil
}

// SeatMap loads and normalizes the availability for one flight.
func (c *Client) SeatMap(ctx context.Context, flightID int64) (domain.SeatMap, error) {
	const op = "backend.SeatMap"

	ep := c.profile.SeatMap
	ep.Path = ep.WithID(flightID)

	var payload seatmap.Payload
	if err := c.do(ctx, ep, nil, nil, &payload); err != nil {
		return domain.SeatMap{}, fmt.Errorf("%s:%w", op, err)
	}

	m, err := seatmap.Normalize(flightID, payload)
	if err != nil {
		return domain.SeatMap{}, fmt.Errorf("%s:%w", op, err)
	}
	return m, nil
}

// StartBooking asks for a booking code covering the selections. One or two
// selections are accepted; the payload shape follows the profile.
func (c *Client) StartBooking(ctx context.Context, username string, sels []domain.BookingSelection) (string, error) {
	const op = "backend.StartBooking"

	body := map[string]any{
		c.profile.Fields.Username: username,
	}

	switch {
	case len(sels) == 2 && c.profile.PairedLegs:
		out, ret := sels[0], sels[1]
		if out.Leg == domain.LegReturn {
			out, ret = ret, out
		}
		body["outbound_flight_id"] = out.FlightID
		body["outbound_seat"] = out.SeatNo
		body["return_flight_id"] = ret.FlightID
		body["return_seat"] = ret.SeatNo
		body["price_usd"] = out.PriceUSD + ret.PriceUSD
	case len(sels) == 1:
		body["flight_id"] = sels[0].FlightID
		body["seat_no"] = sels[0].SeatNo
		body["price_usd"] = sels[0].PriceUSD
	default:
		return "", fmt.Errorf("%s: %d selections in profile %q: %w", op, len(sels), c.profile.Name, ErrNotSupported)
	}

	var out struct {
		RequestID json.Number `json:"request_id"`
	}
	if err := c.do(ctx, c.profile.StartBooking, nil, body, &out); err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	return out.RequestID.String(), nil
}

// ConfirmBooking finalizes the pending booking with the delivered code.
func (c *Client) ConfirmBooking(ctx context.Context, username, code, requestID string) error {
	const op = "backend.ConfirmBooking"

	body := map[string]any{
		c.profile.Fields.Username: username,
		"code":                    code,
	}
	if requestID != "" {
		body["request_id"] = requestID
	}

	if err := c.do(ctx, c.profile.ConfirmBooking, nil, body, nil); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

// MyFlights lists the user's confirmed bookings. The wrapper key varies
// across backend generations (items/tickets/flights).
func (c *Client) MyFlights(ctx context.Context, username string) ([]domain.Ticket, error) {
	const op = "backend.MyFlights"

	values := url.Values{}
	values.Set(c.profile.Fields.Username, username)

	var out struct {
		Items   []domain.Ticket `json:"items"`
		Tickets []domain.Ticket `json:"tickets"`
		Flights []domain.Ticket `json:"flights"`
	}
	if err := c.do(ctx, c.profile.MyFlights, values, nil, &out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	switch {
	case out.Items != nil:
		return out.Items, nil
	case out.Tickets != nil:
		return out.Tickets, nil
	default:
		return out.Flights, nil
	}
}

func (c *Client) do(ctx context.Context, ep Endpoint, values url.Values, body, out any) error {
	if ep.Zero() {
		return ErrNotSupported
	}

	u := c.baseURL + ep.Path
	if len(values) > 0 {
		u += "?" + values.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend call failed", "method", ep.Method, "path", ep.Path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	c.logger.Debug("backend call",
		"method", ep.Method,
		"path", ep.Path,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: extractDetail(data, resp.StatusCode)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return nil
}

// extractDetail pulls the user-facing message out of an error payload:
// {detail: "..."} or {detail: [{msg: "..."}]} or {message: "..."},
// falling back to "HTTP {status}" for anything else.
func extractDetail(data []byte, status int) string {
	fallback := fmt.Sprintf("HTTP %d", status)

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && s != "" {
			return s
		}

		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &list); err == nil && len(list) > 0 && list[0].Msg != "" {
			return list[0].Msg
		}
	}

	if payload.Message != "" {
		return payload.Message
	}
	return fallback
}
