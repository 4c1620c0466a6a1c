package session

import (
	"regexp"
	"strings"

	"github.com/kirinyoku/aero-go/internal/domain"
)

// State is everything one browser session persists: the authenticated
// identity, the pending verification flow, the pending seat selections and
// the language preference. It replaces the ambient module-level variables of
// the page variants with one explicit value.
type State struct {
	Identity   *domain.Identity                       `json:"identity,omitempty"`
	Flow       domain.FlowState                       `json:"flow"`
	Pending    *domain.VerificationRequest            `json:"pending,omitempty"`
	Selections map[domain.Leg]domain.BookingSelection `json:"selections,omitempty"`
	Language   string                                 `json:"language,omitempty"`
}

func newState() State {
	return State{Flow: domain.FlowIdle}
}

func (s *State) selectionList() []domain.BookingSelection {
	if len(s.Selections) == 0 {
		return nil
	}
	out := make([]domain.BookingSelection, 0, len(s.Selections))
	if sel, ok := s.Selections[domain.LegOutbound]; ok {
		out = append(out, sel)
	}
	if sel, ok := s.Selections[domain.LegReturn]; ok {
		out = append(out, sel)
	}
	return out
}

// beginFlow installs a pending verification request, discarding any pending
// flow of another purpose: flows never interleave.
func (s *State) beginFlow(req domain.VerificationRequest) {
	s.Pending = &req
	s.Flow = domain.FlowCodeRequested
}

// endFlow consumes the pending request after a confirm attempt reached the
// server, successfully or not.
func (s *State) endFlow(confirmed bool) {
	s.Pending = nil
	if confirmed {
		s.Flow = domain.FlowConfirmed
	} else {
		s.Flow = domain.FlowIdle
	}
}

var usernameRe = regexp.MustCompile(`^@[A-Za-z0-9_]{4,64}$`)

// NormalizeUsername trims and prepends the leading @ when absent.
// Idempotent; an empty input stays empty.
func NormalizeUsername(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "@") {
		v = "@" + v
	}
	return v
}

// ValidUsername reports whether a normalized username is acceptable.
func ValidUsername(v string) bool {
	return usernameRe.MatchString(v)
}

var codeRe = regexp.MustCompile(`^[0-9]{6}$`)

// validCode checks the verification code format. The lab backend issues six
// digits; profiles with LooseCode accept anything non-empty.
func validCode(code string, loose bool) bool {
	if loose {
		return strings.TrimSpace(code) != ""
	}
	return codeRe.MatchString(code)
}

func validateForm(form domain.RegistrationForm) error {
	required := []struct {
		name, value string
	}{
		{"last_name", form.LastName},
		{"first_name", form.FirstName},
		{"passport_no", form.PassportNo},
		{"birth_date", form.BirthDate},
		{"phone", form.Phone},
		{"email", form.Email},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return FieldError{Field: f.name}
		}
	}
	if !strings.Contains(form.Email, "@") {
		return FieldError{Field: "email"}
	}
	return nil
}
