package holiday

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Request is one requested holiday span. days_requested is the business-day
// count computed at submission time and never re-derived. pending is the
// only state with outbound transitions; approved and denied are terminal.
type Request struct {
	ID            string
	UserID        string
	StartDate     time.Time
	EndDate       time.Time // inclusive
	DaysRequested int
	Status        Status
	Reason        *string
	AdminNote     *string
	DecidedBy     *string
	DecidedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined for admin views
	EmployeeName *string
}

// Contains reports whether the request span covers the given date.
func (r *Request) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}
