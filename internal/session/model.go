package session

import "time"

// Stage is the named position of a user within the linear sales funnel.
type Stage string

const (
	StageStart   Stage = "start"
	StageType    Stage = "type"
	StagePages   Stage = "pages"
	StageBudget  Stage = "budget"
	StagePayment Stage = "payment"
)

// Valid reports whether the stage is one of the defined funnel stages.
func (s Stage) Valid() bool {
	switch s {
	case StageStart, StageType, StagePages, StageBudget, StagePayment:
		return true
	}
	return false
}

// Session captures the live state of one user's in-progress funnel.
// There is at most one session per phone at any time.
type Session struct {
	Phone       string `json:"phone"`
	Stage       Stage  `json:"stage"`
	WebsiteType string `json:"websiteType,omitempty"`
	Pages       string `json:"pages,omitempty"`
	Budget      string `json:"budget,omitempty"`
	Price       int    `json:"price,omitempty"`
	UpdatedAt   string `json:"updatedAt"`
}

// New creates a fresh session for the phone at the start stage.
func New(phone string, now time.Time) *Session {
	s := &Session{Phone: phone, Stage: StageStart}
	s.Touch(now)
	return s
}

// Touch records the time of the latest activity on the session.
func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC().Format(time.RFC3339Nano)
}

// LastActivity parses the stored activity timestamp. Rows written by older
// tooling can carry unparsable values; callers must treat an error as
// "skip this row", never as fatal.
func (s *Session) LastActivity() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s.UpdatedAt)
}
