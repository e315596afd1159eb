package timeentry

import (
	"testing"

	"github.com/shiftbook/shiftbook-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overtimePtr(h float64) *float64 { return &h }

func TestCreateTimeEntryRequest_Validate_OvertimeBounds(t *testing.T) {
	tests := []struct {
		name     string
		overtime *float64
		message  string
	}{
		{"negative", overtimePtr(-1), "Overtime hours cannot be negative"},
		{"above daily cap", overtimePtr(12.5), "Overtime hours cannot exceed 12 hours per day"},
		{"too many decimals", overtimePtr(1.234), "Overtime hours can have at most 2 decimal places"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreateTimeEntryRequest{
				Date:              "2024-06-03",
				StartTime:         "09:00",
				EndTime:           "17:00",
				LunchBreakMinutes: 60,
				OvertimeHours:     tt.overtime,
			}

			var vErrs validator.ValidationErrors
			require.ErrorAs(t, req.Validate(), &vErrs)
			require.Len(t, vErrs, 1)
			assert.Equal(t, "overtime_hours", vErrs[0].Field)
			assert.Equal(t, tt.message, vErrs[0].Message)
		})
	}
}

func TestCreateTimeEntryRequest_Validate_OvertimeAccepted(t *testing.T) {
	for _, overtime := range []*float64{nil, overtimePtr(0), overtimePtr(2.25), overtimePtr(12)} {
		req := CreateTimeEntryRequest{
			Date:              "2024-06-03",
			StartTime:         "09:00",
			EndTime:           "17:00",
			LunchBreakMinutes: 60,
			OvertimeHours:     overtime,
		}
		assert.NoError(t, req.Validate())
	}
}

func TestUpdateTimeEntryRequest_Validate_OvertimeBounds(t *testing.T) {
	req := UpdateTimeEntryRequest{OvertimeHours: overtimePtr(13)}

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &vErrs)
	require.Len(t, vErrs, 1)
	assert.Equal(t, "overtime_hours", vErrs[0].Field)
}
