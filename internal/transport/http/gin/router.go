package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/aero-go/internal/backend"
	"github.com/kirinyoku/aero-go/internal/domain"
	redisx "github.com/kirinyoku/aero-go/internal/redis"
	"github.com/kirinyoku/aero-go/internal/seatmap"
	"github.com/kirinyoku/aero-go/internal/session"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svc *session.Service,
	limiter *redisx.SlidingWindowLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS(), SessionMiddleware())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/session", handleSession(svc))
		api.POST("/session/language", handleSetLanguage(svc))

		auth := api.Group("/auth")
		{
			auth.POST("/request-code", handleRequestCode(svc, limiter))
			auth.POST("/confirm-register", handleConfirmRegister(svc))
			auth.POST("/confirm-login", handleConfirmLogin(svc))
			auth.POST("/logout", handleLogout(svc))
		}

		api.GET("/flights", handleSearchFlights(svc))
		api.GET("/flights/:id/seats", handleSeatMap(svc))

		api.POST("/seats/select", handleSelectSeat(svc))
		api.POST("/seats/clear", handleClearSeat(svc))

		booking := api.Group("/booking")
		{
			booking.POST("/request-code", handleRequestBookingCode(svc, limiter))
			booking.POST("/confirm", handleConfirmBooking(svc))
		}

		api.GET("/my/flights", handleMyFlights(svc))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Session snapshot
// @Success  200  {object}  SessionResponse
// @Router   /api/session [get]
func handleSession(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := svc.Snapshot(c.Request.Context(), sessionID(c))
		if err != nil {
			respondErr(c, err)
			return
		}

		resp := SessionResponse{
			Flow:       st.Flow,
			Selections: nil,
			Language:   st.Language,
		}
		if st.Identity != nil {
			resp.Username = st.Identity.Username
		}
		if st.Pending != nil {
			resp.Pending = string(st.Pending.Purpose)
		}
		for _, sel := range []domain.Leg{domain.LegOutbound, domain.LegReturn} {
			if s, ok := st.Selections[sel]; ok {
				resp.Selections = append(resp.Selections, s)
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Store language preference
// @Param    req body LanguageRequest true "payload"
// @Success  204
// @Router   /api/session/language [post]
func handleSetLanguage(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LanguageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svc.SetLanguage(c.Request.Context(), sessionID(c), req.Language); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Request a verification code (register/login)
// @Param    req body RequestCodeRequest true "payload"
// @Success  202
// @Failure  400 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/auth/request-code [post]
func handleRequestCode(svc *session.Service, limiter *redisx.SlidingWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RequestCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if !allowCodeRequest(c, limiter) {
			return
		}

		purpose := domain.VerificationPurpose(req.Purpose)
		if err := svc.RequestCode(c.Request.Context(), sessionID(c), req.Username, purpose); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusAccepted)
	}
}

// @Summary  Confirm registration with the delivered code
// @Param    req body ConfirmRegisterRequest true "payload"
// @Success  200 {object} IdentityResponse
// @Failure  400 {object} ErrorResponse
// @Router   /api/auth/confirm-register [post]
func handleConfirmRegister(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		form := domain.RegistrationForm{
			LastName:   req.LastName,
			FirstName:  req.FirstName,
			MiddleName: req.MiddleName,
			PassportNo: req.PassportNo,
			BirthDate:  req.BirthDate,
			Phone:      req.Phone,
			Email:      req.Email,
		}

		identity, err := svc.ConfirmRegister(c.Request.Context(), sessionID(c), req.Username, req.Code, form)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, IdentityResponse{
			Username:    identity.Username,
			PassengerID: identity.PassengerID,
		})
	}
}

// @Summary  Confirm login with the delivered code
// @Param    req body ConfirmLoginRequest true "payload"
// @Success  200 {object} IdentityResponse
// @Failure  400 {object} ErrorResponse
// @Router   /api/auth/confirm-login [post]
func handleConfirmLogin(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		identity, err := svc.ConfirmLogin(c.Request.Context(), sessionID(c), req.Username, req.Code)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, IdentityResponse{Username: identity.Username})
	}
}

// @Summary  Log out
// @Success  204
// @Router   /api/auth/logout [post]
func handleLogout(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Logout(c.Request.Context(), sessionID(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Search flights
// @Param    departure_city query string false "departure city"
// @Param    arrival_city   query string false "arrival city"
// @Param    date           query string false "YYYY-MM-DD"
// @Success  200 {array} domain.Flight
// @Router   /api/flights [get]
func handleSearchFlights(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := backend.FlightQuery{
			DepartureCity: c.Query("departure_city"),
			ArrivalCity:   c.Query("arrival_city"),
			Date:          c.Query("date"),
		}

		flights, err := svc.SearchFlights(c.Request.Context(), q)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeCachedJSON(c, flights, "public, max-age=15")
	}
}

// @Summary  Seat map grid
// @Param    id     path  int     true  "Flight ID"
// @Param    fresh  query string  false "bypass cache"
// @Success  200 {object} SeatMapResponse
// @Failure  404 {object} ErrorResponse
// @Router   /api/flights/{id}/seats [get]
func handleSeatMap(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		fresh := c.Query("fresh") == "true"

		m, err := svc.SeatMap(c.Request.Context(), flightID, fresh)
		if err != nil {
			respondErr(c, err)
			return
		}

		st, err := svc.Snapshot(c.Request.Context(), sessionID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		selected := make(map[string]bool)
		for _, sel := range st.Selections {
			if sel.FlightID == flightID {
				selected[sel.SeatNo] = true
			}
		}

		resp := SeatMapResponse{FlightID: flightID, Capacity: m.Capacity}
		for _, row := range seatmap.Rows(m.Capacity) {
			views := make([]SeatView, 0, len(row))
			for _, code := range row {
				views = append(views, SeatView{
					Seat:     code,
					Taken:    m.IsTaken(code),
					Selected: selected[code],
				})
			}
			resp.Rows = append(resp.Rows, views)
		}

		writeCachedJSON(c, resp, "private, max-age=15")
	}
}

// @Summary  Pick a seat for one leg
// @Param    req body SelectSeatRequest true "payload"
// @Success  204
// @Failure  409 {object} ErrorResponse "seat taken"
// @Router   /api/seats/select [post]
func handleSelectSeat(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectSeatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		leg := domain.Leg(req.Leg)
		if leg == "" {
			leg = domain.LegOutbound
		}

		err := svc.SelectSeat(c.Request.Context(), sessionID(c), leg, req.FlightID, req.SeatNo, req.PriceUSD)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Clear the pick for one leg
// @Param    req body ClearSeatRequest true "payload"
// @Success  204
// @Router   /api/seats/clear [post]
func handleClearSeat(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClearSeatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		leg := domain.Leg(req.Leg)
		if leg == "" {
			leg = domain.LegOutbound
		}

		if err := svc.ClearSeat(c.Request.Context(), sessionID(c), leg); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Request a booking code for the pending selections
// @Success  202
// @Failure  400 {object} ErrorResponse
// @Failure  401 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/booking/request-code [post]
func handleRequestBookingCode(svc *session.Service, limiter *redisx.SlidingWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowCodeRequest(c, limiter) {
			return
		}

		if err := svc.RequestBookingCode(c.Request.Context(), sessionID(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusAccepted)
	}
}

// @Summary  Confirm the pending booking
// @Param    req body ConfirmBookingRequest true "payload"
// @Success  204
// @Failure  400 {object} ErrorResponse
// @Router   /api/booking/confirm [post]
func handleConfirmBooking(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svc.ConfirmBooking(c.Request.Context(), sessionID(c), req.Code); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  List confirmed bookings
// @Success  200 {array} domain.Ticket
// @Failure  401 {object} ErrorResponse
// @Router   /api/my/flights [get]
func handleMyFlights(svc *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := svc.MyFlights(c.Request.Context(), sessionID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

// --- Helpers ---

// allowCodeRequest applies the optional sliding-window limit per session.
// A nil limiter (no Redis configured) allows everything.
func allowCodeRequest(c *gin.Context, limiter *redisx.SlidingWindowLimiter) bool {
	if limiter == nil {
		return true
	}

	ok, _, retry, err := limiter.Allow(c.Request.Context(), sessionID(c))
	if err != nil {
		// a broken limiter must not block the flow
		return true
	}
	if !ok {
		c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many code requests"})
		return false
	}
	return true
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var fieldErr session.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fieldErr.Error()})
		return
	}

	switch {
	// input validation, caught before any network call
	case errors.Is(err, session.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid @username"})
		return
	case errors.Is(err, session.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid code format"})
		return
	case errors.Is(err, session.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "price must be positive"})
		return
	case errors.Is(err, session.ErrInvalidSeat):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no such seat"})
		return
	case errors.Is(err, session.ErrNoSelection):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pick a seat first"})
		return
	case errors.Is(err, session.ErrSingleLegOnly):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "this backend books one leg at a time"})
		return
	// session state
	case errors.Is(err, session.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	case errors.Is(err, session.ErrSeatTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat already taken"})
		return
	case errors.Is(err, session.ErrNoPendingCode):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "request a code first"})
		return
	case errors.Is(err, session.ErrPurposeMismatch):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "pending code is for a different flow"})
		return
	// backend
	case errors.Is(err, backend.ErrNotSupported):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not supported by this backend"})
		return
	case errors.Is(err, backend.ErrUnreachable):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "cannot reach server"})
		return
	}

	// server rejections surface verbatim with the backend's own status
	if apiErr, ok := backend.AsAPIError(err); ok {
		c.JSON(apiErr.Status, ErrorResponse{Error: apiErr.Detail})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
