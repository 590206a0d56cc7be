package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keibalab/oddsget/internal/race"
)

func TestOddsAvailable(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"2.4", true},
		{"12", true},
		{"1042.6", true},
		{"1.1 - 1.3", true},
		{"2.0-3.1", true},
		{"", false},
		{"  ", false},
		{"-", false},
		{"--", false},
		{"---.-", false},
		{"発売前", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, oddsAvailable(tc.value), "value %q", tc.value)
	}
}

func TestAnyOddsAvailable(t *testing.T) {
	withdrawn := []race.OddsRow{
		{Combination: "1-2", Odds: "---.-"},
		{Combination: "2-1", Odds: "---.-"},
	}
	assert.False(t, anyOddsAvailable(withdrawn))

	mixed := append(withdrawn, race.OddsRow{Combination: "1-3", Odds: "5.4"})
	assert.True(t, anyOddsAvailable(mixed))

	assert.False(t, anyOddsAvailable(nil))
}
