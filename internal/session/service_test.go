package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kirinyoku/aero-go/internal/backend"
	"github.com/kirinyoku/aero-go/internal/domain"
	"github.com/kirinyoku/aero-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory lab-profile backend: one flight, a mutable
// taken set, codes always "654321".
type fakeBackend struct {
	mu         sync.Mutex
	capacity   int
	taken      []string
	calls      map[string]int
	lastBody   map[string]any
	bookedSeat string // seat moved into taken on booking confirm
	token      string // bearer token the register response carries, if any
	failWith   int    // when non-zero, every POST fails with this status
	failBody   string // body to send on failure
}

func newFakeBackend(capacity int, taken ...string) *fakeBackend {
	return &fakeBackend{capacity: capacity, taken: taken, calls: map[string]int{}}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	record := func(r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls[r.URL.Path]++
		if r.Method == http.MethodPost {
			body := map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.lastBody = body
		}
	}
	failing := func(w http.ResponseWriter) bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failWith != 0 {
			w.WriteHeader(f.failWith)
			io.WriteString(w, f.failBody)
			return true
		}
		return false
	}

	mux.HandleFunc("POST /api/auth/start", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if failing(w) {
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"request_id": 1})
	})
	mux.HandleFunc("POST /api/register/complete", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if failing(w) {
			return
		}
		resp := map[string]any{"passenger_id": 5}
		f.mu.Lock()
		if f.token != "" {
			resp["token"] = f.token
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("POST /api/booking/start", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if failing(w) {
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"request_id": 2})
	})
	mux.HandleFunc("POST /api/booking/confirm", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if failing(w) {
			return
		}
		f.mu.Lock()
		if seat, ok := f.lastBodySeat(); ok {
			f.taken = append(f.taken, seat)
		}
		f.mu.Unlock()
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /api/flights/9/seats", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		f.mu.Lock()
		resp := map[string]any{"capacity": f.capacity, "taken": f.taken}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("GET /api/flights", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		json.NewEncoder(w).Encode(map[string]any{"flights": []domain.Flight{
			{FlightID: 9, FlightNumber: "B2-101", SeatCapacity: f.capacity, PriceSuggested: 120},
		}})
	})
	mux.HandleFunc("GET /api/my/flights", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		json.NewEncoder(w).Encode(map[string]any{"items": []domain.Ticket{
			{FlightNumber: "B2-101", SeatNo: "2B", PriceUSD: 120},
		}})
	})

	return mux
}

// lastBodySeat reports the seat a confirmed booking should mark taken.
// Callers hold f.mu.
func (f *fakeBackend) lastBodySeat() (string, bool) {
	return f.bookedSeat, f.bookedSeat != ""
}

func (f *fakeBackend) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func newTestService(t *testing.T, fb *fakeBackend, profile backend.Profile) *Service {
	t.Helper()

	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	client := backend.New(backend.Config{BaseURL: srv.URL, Profile: profile}, testLogger())
	mem := store.NewMemory()
	return New(client, mem, store.NewCache(store.NewMemory()), Config{CacheTTL: time.Millisecond}, testLogger())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "@kain_cr", NormalizeUsername("kain_cr"))
	assert.Equal(t, "@kain_cr", NormalizeUsername("@kain_cr"))
	assert.Equal(t, "@kain_cr", NormalizeUsername("  kain_cr  "))
	assert.Equal(t, "", NormalizeUsername("   "))

	// idempotent
	for _, v := range []string{"kain_cr", "@kain_cr", "x_y_z_9"} {
		once := NormalizeUsername(v)
		assert.Equal(t, once, NormalizeUsername(once))
	}
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("@kain_cr"))
	assert.True(t, ValidUsername("@abcd"))
	assert.False(t, ValidUsername("kain_cr"), "must carry the @")
	assert.False(t, ValidUsername("@abc"), "too short")
	assert.False(t, ValidUsername("@has space"))
	assert.False(t, ValidUsername("@"+string(make([]byte, 70))))
}

func TestRequestCode_WireScenario(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())

	err := svc.RequestCode(context.Background(), "sid1", "kain_cr", domain.PurposeRegister)
	require.NoError(t, err)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	assert.Equal(t, "@kain_cr", fb.lastBody["telegram_username"])
	assert.Equal(t, "registration", fb.lastBody["purpose"])

	st, err := svc.Snapshot(context.Background(), "sid1")
	require.NoError(t, err)
	assert.Equal(t, domain.FlowCodeRequested, st.Flow)
	require.NotNil(t, st.Pending)
	assert.Equal(t, "1", st.Pending.RequestID)
}

func TestRequestCode_InvalidUsernameNoNetworkCall(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())

	err := svc.RequestCode(context.Background(), "sid1", "ab", domain.PurposeRegister)
	assert.ErrorIs(t, err, ErrInvalidUsername)
	assert.Zero(t, fb.callCount("/api/auth/start"))
}

func TestConfirmRegister_ServerRejection(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "sid1", "@kain_cr", domain.PurposeRegister))

	fb.mu.Lock()
	fb.failWith = 400
	fb.failBody = `{"detail":"invalid code"}`
	fb.mu.Unlock()

	_, err := svc.ConfirmRegister(ctx, "sid1", "@kain_cr", "000000", validForm())
	require.Error(t, err)

	apiErr, ok := backend.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid code", apiErr.Detail)

	// no identity persisted, flow consumed back to idle
	st, err := svc.Snapshot(ctx, "sid1")
	require.NoError(t, err)
	assert.Nil(t, st.Identity)
	assert.Nil(t, st.Pending)
	assert.Equal(t, domain.FlowIdle, st.Flow)
}

func TestConfirmRegister_Success(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "sid1", "@kain_cr", domain.PurposeRegister))

	id, err := svc.ConfirmRegister(ctx, "sid1", "@kain_cr", "654321", validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(5), id.PassengerID)

	// request id echoed back to the backend
	fb.mu.Lock()
	assert.Equal(t, "1", fb.lastBody["auth_request_id"])
	fb.mu.Unlock()

	got, err := svc.Identity(ctx, "sid1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "@kain_cr", got.Username)
}

func TestConfirmRegister_CodeFormat(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "sid1", "@kain_cr", domain.PurposeRegister))

	_, err := svc.ConfirmRegister(ctx, "sid1", "@kain_cr", "12345", validForm())
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Zero(t, fb.callCount("/api/register/complete"))
}

func TestConfirmRegister_NoPending(t *testing.T) {
	svc := newTestService(t, newFakeBackend(12), backend.LabProfile())

	_, err := svc.ConfirmRegister(context.Background(), "sid1", "@kain_cr", "654321", validForm())
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestSelectSeat(t *testing.T) {
	svc := newTestService(t, newFakeBackend(12, "1A", "2C"), backend.LabProfile())
	ctx := context.Background()

	t.Run("taken seat is a no-op", func(t *testing.T) {
		err := svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "1A", 120)
		assert.ErrorIs(t, err, ErrSeatTaken)

		st, _ := svc.Snapshot(ctx, "sid1")
		assert.Empty(t, st.Selections)
	})

	t.Run("nonexistent seat rejected", func(t *testing.T) {
		err := svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "3A", 120)
		assert.ErrorIs(t, err, ErrInvalidSeat, "3A is index 12 on a 12-seat plane")
	})

	t.Run("new pick replaces previous on same leg", func(t *testing.T) {
		require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "1B", 120))
		require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "1C", 120))

		st, err := svc.Snapshot(ctx, "sid1")
		require.NoError(t, err)
		require.Len(t, st.Selections, 1)
		assert.Equal(t, "1C", st.Selections[domain.LegOutbound].SeatNo)
	})

	t.Run("legs select independently", func(t *testing.T) {
		require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegReturn, 9, "2A", 130))

		st, _ := svc.Snapshot(ctx, "sid1")
		assert.Len(t, st.Selections, 2)
	})
}

func TestRequestBookingCode_Validation(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	t.Run("unauthenticated", func(t *testing.T) {
		err := svc.RequestBookingCode(ctx, "sid1")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	authenticate(t, svc, fb, "sid1")

	t.Run("no selection", func(t *testing.T) {
		err := svc.RequestBookingCode(ctx, "sid1")
		assert.ErrorIs(t, err, ErrNoSelection)
	})

	t.Run("non-positive price never reaches the network", func(t *testing.T) {
		require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "1B", 0))

		before := fb.callCount("/api/booking/start")
		err := svc.RequestBookingCode(ctx, "sid1")
		assert.ErrorIs(t, err, ErrInvalidPrice)
		assert.Equal(t, before, fb.callCount("/api/booking/start"))
	})

	t.Run("two legs rejected on a single-leg backend", func(t *testing.T) {
		require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "1B", 120))
		require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegReturn, 9, "2A", 130))

		before := fb.callCount("/api/booking/start")
		err := svc.RequestBookingCode(ctx, "sid1")
		assert.ErrorIs(t, err, ErrSingleLegOnly, "lab profile posts one flight_id/seat_no pair per call")
		assert.Equal(t, before, fb.callCount("/api/booking/start"))
	})
}

func TestBookingFlow_EndToEnd(t *testing.T) {
	fb := newFakeBackend(12, "1A")
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	authenticate(t, svc, fb, "sid1")

	require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "2B", 120))
	require.NoError(t, svc.RequestBookingCode(ctx, "sid1"))

	fb.mu.Lock()
	assert.Equal(t, float64(9), fb.lastBody["flight_id"])
	assert.Equal(t, "2B", fb.lastBody["seat_no"])
	fb.bookedSeat = "2B"
	fb.mu.Unlock()

	require.NoError(t, svc.ConfirmBooking(ctx, "sid1", "654321"))

	// selections cleared, flow confirmed
	st, err := svc.Snapshot(ctx, "sid1")
	require.NoError(t, err)
	assert.Empty(t, st.Selections)
	assert.Nil(t, st.Pending)
	assert.Equal(t, domain.FlowConfirmed, st.Flow)

	// a fresh seat-map reload sees the booked seat taken
	m, err := svc.SeatMap(ctx, 9, true)
	require.NoError(t, err)
	assert.True(t, m.IsTaken("2B"))
}

func TestConfirmBooking_RejectedKeepsSelections(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	authenticate(t, svc, fb, "sid1")
	require.NoError(t, svc.SelectSeat(ctx, "sid1", domain.LegOutbound, 9, "2B", 120))
	require.NoError(t, svc.RequestBookingCode(ctx, "sid1"))

	fb.mu.Lock()
	fb.failWith = 400
	fb.failBody = `{"detail":"code expired"}`
	fb.mu.Unlock()

	err := svc.ConfirmBooking(ctx, "sid1", "654321")
	require.Error(t, err)

	st, _ := svc.Snapshot(ctx, "sid1")
	require.Len(t, st.Selections, 1, "failed confirm must not roll back selections")
	assert.Equal(t, "2B", st.Selections[domain.LegOutbound].SeatNo)
	assert.Nil(t, st.Pending, "rejected code is consumed; user re-requests")
}

func TestMyFlights_RequiresIdentity(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	_, err := svc.MyFlights(ctx, "sid1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	authenticate(t, svc, fb, "sid1")

	tickets, err := svc.MyFlights(ctx, "sid1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "2B", tickets[0].SeatNo)
}

func TestIdentity_ExpiredTokenLogsOutEverywhere(t *testing.T) {
	fb := newFakeBackend(12)
	fb.token = signedToken(`{"exp":1}`) // expired 1970-01-01
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	authenticate(t, svc, fb, "sid1")

	id, err := svc.Identity(ctx, "sid1")
	require.NoError(t, err)
	assert.Nil(t, id)

	// the session snapshot must agree with the authenticated operations
	st, err := svc.Snapshot(ctx, "sid1")
	require.NoError(t, err)
	assert.Nil(t, st.Identity)

	_, err = svc.MyFlights(ctx, "sid1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestIdentity_UnexpiredAndOpaqueTokensSurvive(t *testing.T) {
	for name, token := range map[string]string{
		"far future": signedToken(`{"exp":4102444800}`), // 2100-01-01
		"opaque":     "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			fb := newFakeBackend(12)
			fb.token = token
			svc := newTestService(t, fb, backend.LabProfile())

			authenticate(t, svc, fb, "sid1")

			id, err := svc.Identity(context.Background(), "sid1")
			require.NoError(t, err)
			require.NotNil(t, id)
			assert.Equal(t, "@kain_cr", id.Username)
		})
	}
}

// signedToken builds a JWT-shaped token with the given claims; the signature
// is junk, which is fine because only the expiry claim is ever inspected.
func signedToken(claims string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(claims))
	return header + "." + payload + ".c2ln"
}

func TestLogout(t *testing.T) {
	fb := newFakeBackend(12)
	svc := newTestService(t, fb, backend.LabProfile())
	ctx := context.Background()

	authenticate(t, svc, fb, "sid1")
	require.NoError(t, svc.Logout(ctx, "sid1"))

	id, err := svc.Identity(ctx, "sid1")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func authenticate(t *testing.T, svc *Service, fb *fakeBackend, sid string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.RequestCode(ctx, sid, "@kain_cr", domain.PurposeRegister))
	_, err := svc.ConfirmRegister(ctx, sid, "@kain_cr", "654321", validForm())
	require.NoError(t, err)
}

func validForm() domain.RegistrationForm {
	return domain.RegistrationForm{
		LastName:   "Crane",
		FirstName:  "Kain",
		PassportNo: "MP1234567",
		BirthDate:  "1990-01-02",
		Phone:      "+375291112233",
		Email:      "kain@example.com",
	}
}
