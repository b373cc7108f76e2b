package layupsetting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSetting_Validate(t *testing.T) {
	s := Setting{Rate: decimal.RequireFromString("1.25"), Hours: DefaultHours}
	require.NoError(t, s.Validate())
	require.Equal(t, "10", s.DailyUnits().String())

	s.Rate = decimal.NewFromInt(-1)
	require.ErrorIs(t, s.Validate(), ErrInvalidRate)

	s.Rate = DefaultRate
	s.Hours = decimal.NewFromInt(25)
	require.ErrorIs(t, s.Validate(), ErrInvalidHours)
}

func TestUpdateDTO_Apply(t *testing.T) {
	rate := decimal.RequireFromString("2.5")
	inactive := false
	s := UpdateDTO{Rate: &rate, Active: &inactive}.Apply(Setting{
		EmployeeID: "E1",
		Rate:       DefaultRate,
		Hours:      DefaultHours,
		Active:     true,
	})

	require.Equal(t, "E1", s.EmployeeID)
	require.True(t, rate.Equal(s.Rate))
	require.True(t, DefaultHours.Equal(s.Hours))
	require.False(t, s.Active)
}
