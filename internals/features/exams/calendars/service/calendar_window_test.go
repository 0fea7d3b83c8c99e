package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examplanner_backend/internals/helpers/dbtime"
)

func datePtr(s string) *dbtime.Date {
	d := dbtime.MustParseDate(s)
	return &d
}

func TestResolveWindow(t *testing.T) {
	today := dbtime.MustParseDate("2026-03-10")

	tests := []struct {
		name      string
		start     *dbtime.Date
		end       *dbtime.Date
		wantStart string
		wantEnd   string
	}{
		{"both given", datePtr("2026-02-01"), datePtr("2026-02-28"), "2026-02-01", "2026-02-28"},
		{"same day", datePtr("2026-02-01"), datePtr("2026-02-01"), "2026-02-01", "2026-02-01"},
		{"start only", datePtr("2026-02-01"), nil, "2026-02-01", "2026-02-28"},
		{"end only", nil, datePtr("2026-02-28"), "2026-02-01", "2026-02-28"},
		{"neither", nil, nil, "2026-03-10", "2026-04-06"},
		{"start only across year", datePtr("2026-12-20"), nil, "2026-12-20", "2027-01-16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e, err := ResolveWindow(tt.start, tt.end, today)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, s.String())
			assert.Equal(t, tt.wantEnd, e.String())
		})
	}
}

func TestResolveWindow_RejectsInvertedRange(t *testing.T) {
	_, _, err := ResolveWindow(datePtr("2026-02-28"), datePtr("2026-02-01"), dbtime.MustParseDate("2026-01-01"))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
