package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kirinyoku/aero-go/internal/backend"
	"github.com/kirinyoku/aero-go/internal/domain"
	rediskeys "github.com/kirinyoku/aero-go/internal/redis"
	"github.com/kirinyoku/aero-go/internal/seatmap"
	"github.com/kirinyoku/aero-go/internal/store"
)

type Config struct {
	// SessionTTL bounds how long an idle session survives in the store.
	SessionTTL time.Duration
	// CacheTTL bounds the flight/seat-map read-through cache.
	CacheTTL time.Duration
}

// Service is the booking session controller: it owns the per-session state
// and drives the two request/confirm protocols against the backend. One
// instance serves all sessions; state lives in the store, keyed by session ID.
type Service struct {
	backend *backend.Client
	store   store.Store
	cache   *store.Cache
	cfg     Config
	logger  *slog.Logger
}

func New(client *backend.Client, st store.Store, cache *store.Cache, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Second
	}

	return &Service{
		backend: client,
		store:   st,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *Service) load(ctx context.Context, sid string) (State, error) {
	st, ok, err := store.GetJSON[State](ctx, s.store, rediskeys.KeySession(sid))
	if err != nil {
		return State{}, err
	}
	if !ok {
		return newState(), nil
	}

	// An expired bearer token means logged out everywhere: clearing here keeps
	// Snapshot and the authenticated operations in agreement.
	if st.Identity != nil && st.Identity.Token != "" && tokenExpired(st.Identity.Token) {
		st.Identity = nil
		_ = s.save(ctx, sid, st)
	}
	return st, nil
}

func (s *Service) save(ctx context.Context, sid string, st State) error {
	return store.SetJSON(ctx, s.store, rediskeys.KeySession(sid), st, s.cfg.SessionTTL)
}

// Snapshot returns the current session state for rendering.
func (s *Service) Snapshot(ctx context.Context, sid string) (State, error) {
	return s.load(ctx, sid)
}

// Identity returns the authenticated identity, or nil when logged out.
func (s *Service) Identity(ctx context.Context, sid string) (*domain.Identity, error) {
	st, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	return st.Identity, nil
}

// tokenExpired decodes the token claims without verifying the signature; the
// backend is the authority, the client only avoids presenting a stale token.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false // opaque tokens pass through untouched
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// RequestCode starts the register or login flow: validates the username and
// asks the backend to deliver a one-time code out of band. Nothing is
// persisted as authenticated until a confirm succeeds.
func (s *Service) RequestCode(ctx context.Context, sid, username string, purpose domain.VerificationPurpose) error {
	const op = "session.RequestCode"

	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return fmt.Errorf("%s:%w", op, ErrInvalidUsername)
	}

	st, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	requestID, err := s.backend.StartAuth(ctx, username, purpose)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	st.beginFlow(domain.VerificationRequest{
		Purpose:   purpose,
		Username:  username,
		RequestID: requestID,
	})

	if err := s.save(ctx, sid, st); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.logger.Info("verification code requested", "purpose", purpose, "username", username)
	return nil
}

// ConfirmRegister completes registration. The pending request is consumed
// whether the backend accepts or rejects the code; only a connectivity
// failure leaves it in place for a plain retry.
func (s *Service) ConfirmRegister(
	ctx context.Context,
	sid, username, code string,
	form domain.RegistrationForm,
) (domain.Identity, error) {
	const op = "session.ConfirmRegister"

	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, ErrInvalidUsername)
	}
	if !validCode(code, s.backend.Profile().LooseCode) {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, ErrInvalidCode)
	}
	if err := validateForm(form); err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	st, err := s.load(ctx, sid)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}
	pending, err := s.requirePending(st, domain.PurposeRegister)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	identity, err := s.backend.ConfirmRegister(ctx, username, strings.TrimSpace(code), pending.RequestID, form)
	if err != nil {
		if _, rejected := backend.AsAPIError(err); rejected {
			st.endFlow(false)
			_ = s.save(ctx, sid, st)
		}
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	st.Identity = &identity
	st.endFlow(true)
	if err := s.save(ctx, sid, st); err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	s.logger.Info("registration confirmed", "username", username)
	return identity, nil
}

// ConfirmLogin completes the login flow on backends that support it.
func (s *Service) ConfirmLogin(ctx context.Context, sid, username, code string) (domain.Identity, error) {
	const op = "session.ConfirmLogin"

	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, ErrInvalidUsername)
	}
	if !validCode(code, s.backend.Profile().LooseCode) {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, ErrInvalidCode)
	}

	st, err := s.load(ctx, sid)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}
	pending, err := s.requirePending(st, domain.PurposeLogin)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	identity, err := s.backend.ConfirmLogin(ctx, username, strings.TrimSpace(code), pending.RequestID)
	if err != nil {
		if _, rejected := backend.AsAPIError(err); rejected {
			st.endFlow(false)
			_ = s.save(ctx, sid, st)
		}
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	st.Identity = &identity
	st.endFlow(true)
	if err := s.save(ctx, sid, st); err != nil {
		return domain.Identity{}, fmt.Errorf("%s:%w", op, err)
	}

	s.logger.Info("login confirmed", "username", username)
	return identity, nil
}

// Logout clears the persisted identity and any in-progress state.
func (s *Service) Logout(ctx context.Context, sid string) error {
	const op = "session.Logout"

	if err := s.store.Del(ctx, rediskeys.KeySession(sid)); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

// SetLanguage stores the UI language preference.
func (s *Service) SetLanguage(ctx context.Context, sid, lang string) error {
	const op = "session.SetLanguage"

	st, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	st.Language = lang
	if err := s.save(ctx, sid, st); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

// SearchFlights reads flights through the short-TTL cache.
func (s *Service) SearchFlights(ctx context.Context, q backend.FlightQuery) ([]domain.Flight, error) {
	const op = "session.SearchFlights"

	key := rediskeys.KeyFlights(fmt.Sprintf("%s|%s|%s", q.DepartureCity, q.ArrivalCity, q.Date))
	flights, err := store.Through(ctx, s.cache, key, s.cfg.CacheTTL, func(ctx context.Context) ([]domain.Flight, error) {
		return s.backend.SearchFlights(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	return flights, nil
}

// SeatMap loads the availability for a flight. fresh bypasses the cache,
// which the UI uses right after a confirmed booking so the newly taken seats
// show immediately.
func (s *Service) SeatMap(ctx context.Context, flightID int64, fresh bool) (domain.SeatMap, error) {
	const op = "session.SeatMap"

	key := rediskeys.KeySeatMap(flightID)
	if fresh {
		_ = s.cache.Invalidate(ctx, key)
	}

	m, err := store.Through(ctx, s.cache, key, s.cfg.CacheTTL, func(ctx context.Context) (domain.SeatMap, error) {
		return s.backend.SeatMap(ctx, flightID)
	})
	if err != nil {
		return domain.SeatMap{}, fmt.Errorf("%s:%w", op, err)
	}
	return m, nil
}

// SelectSeat records a seat pick for one leg, replacing any previous pick on
// that leg. Picking a taken or nonexistent seat fails and leaves the
// selection unchanged.
func (s *Service) SelectSeat(ctx context.Context, sid string, leg domain.Leg, flightID int64, seatNo string, priceUSD float64) error {
	const op = "session.SelectSeat"

	m, err := s.SeatMap(ctx, flightID, false)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if !seatmap.Valid(seatNo, m.Capacity) {
		return fmt.Errorf("%s:%w", op, ErrInvalidSeat)
	}
	if m.IsTaken(seatNo) {
		return fmt.Errorf("%s:%w", op, ErrSeatTaken)
	}

	st, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if st.Selections == nil {
		st.Selections = make(map[domain.Leg]domain.BookingSelection)
	}
	st.Selections[leg] = domain.BookingSelection{
		Leg:      leg,
		FlightID: flightID,
		SeatNo:   seatNo,
		PriceUSD: priceUSD,
	}

	if err := s.save(ctx, sid, st); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

// ClearSeat drops the pick for one leg.
func (s *Service) ClearSeat(ctx context.Context, sid string, leg domain.Leg) error {
	const op = "session.ClearSeat"

	st, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	delete(st.Selections, leg)
	if err := s.save(ctx, sid, st); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	return nil
}

// RequestBookingCode validates the pending selections and asks the backend
// for a booking code. Validation failures never reach the network.
func (s *Service) RequestBookingCode(ctx context.Context, sid string) error {
	const op = "session.RequestBookingCode"

	st, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	identity := st.Identity
	if identity == nil {
		return fmt.Errorf("%s:%w", op, ErrNotAuthenticated)
	}

	sels := st.selectionList()
	if len(sels) == 0 {
		return fmt.Errorf("%s:%w", op, ErrNoSelection)
	}
	if len(sels) > 1 && !s.backend.Profile().PairedLegs {
		return fmt.Errorf("%s:%w", op, ErrSingleLegOnly)
	}
	for _, sel := range sels {
		if strings.TrimSpace(sel.SeatNo) == "" {
			return fmt.Errorf("%s:%w", op, ErrNoSelection)
		}
		if sel.PriceUSD <= 0 {
			return fmt.Errorf("%s:%w", op, ErrInvalidPrice)
		}
	}

	requestID, err := s.backend.StartBooking(ctx, identity.Username, sels)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	st.beginFlow(domain.VerificationRequest{
		Purpose:   domain.PurposeBooking,
		Username:  identity.Username,
		RequestID: requestID,
	})

	if err := s.save(ctx, sid, st); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.logger.Info("booking code requested", "username", identity.Username, "selections", len(sels))
	return nil
}

// ConfirmBooking finalizes the pending selections. On success they are
// cleared and the affected seat maps invalidated; a rejected code leaves the
// selections untouched so the user can re-request and retry.
func (s *Service) ConfirmBooking(ctx context.Context, sid, code string) error {
	const op = "session.ConfirmBooking"

	if !validCode(code, s.backend.Profile().LooseCode) {
		return fmt.Errorf("%s:%w", op, ErrInvalidCode)
	}

	st, err := s.load(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if st.Identity == nil {
		return fmt.Errorf("%s:%w", op, ErrNotAuthenticated)
	}
	pending, err := s.requirePending(st, domain.PurposeBooking)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.backend.ConfirmBooking(ctx, st.Identity.Username, strings.TrimSpace(code), pending.RequestID); err != nil {
		if _, rejected := backend.AsAPIError(err); rejected {
			st.endFlow(false)
			_ = s.save(ctx, sid, st)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	var seatKeys []string
	for _, sel := range st.selectionList() {
		seatKeys = append(seatKeys, rediskeys.KeySeatMap(sel.FlightID))
	}
	_ = s.cache.Invalidate(ctx, seatKeys...)

	st.Selections = nil
	st.endFlow(true)
	if err := s.save(ctx, sid, st); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.logger.Info("booking confirmed", "username", st.Identity.Username)
	return nil
}

// MyFlights lists the authenticated user's confirmed bookings.
func (s *Service) MyFlights(ctx context.Context, sid string) ([]domain.Ticket, error) {
	const op = "session.MyFlights"

	identity, err := s.Identity(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if identity == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrNotAuthenticated)
	}

	tickets, err := s.backend.MyFlights(ctx, identity.Username)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	return tickets, nil
}

func (s *Service) requirePending(st State, purpose domain.VerificationPurpose) (*domain.VerificationRequest, error) {
	if st.Pending == nil {
		return nil, ErrNoPendingCode
	}
	if st.Pending.Purpose != purpose {
		return nil, ErrPurposeMismatch
	}
	return st.Pending, nil
}
