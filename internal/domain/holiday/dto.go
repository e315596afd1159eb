package holiday

import (
	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
)

type CreateRequestRequest struct {
	UserID    string  `json:"-"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`
}

// Validate checks the request shape. Allowance and backdating rules depend
// on stored state and today's date; those are enforced by the service.
func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "Start date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "Start date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "End date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "End date must be in YYYY-MM-DD format",
		})
	}

	if start, okS := validator.IsValidDate(r.StartDate); okS {
		if end, okE := validator.IsValidDate(r.EndDate); okE && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "End date must be on or after start date",
			})
		}
	}

	if r.Reason != nil && len(*r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "Reason must be less than 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideRequestRequest struct {
	RequestID string  `json:"-"`
	DecidedBy string  `json:"-"`
	AdminNote *string `json:"admin_note,omitempty"`
}

func (r *DecideRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if r.AdminNote != nil && len(*r.AdminNote) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "admin_note",
			Message: "Admin note must be less than 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AllowanceSummary is the remaining-allowance API shape.
type AllowanceSummary struct {
	Allowance int `json:"allowance"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}
