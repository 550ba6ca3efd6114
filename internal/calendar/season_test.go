package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonOf(t *testing.T) {
	tests := []struct {
		name   string
		t      time.Time
		season Season
	}{
		{"day before spring", at(2025, time.March, 19, 23, 59), Winter},
		{"first day of spring", at(2025, time.March, 20, 0, 0), Spring},
		{"day before summer", at(2025, time.June, 19, 23, 59), Spring},
		{"first day of summer", at(2025, time.June, 20, 0, 0), Summer},
		{"day before autumn", at(2025, time.September, 21, 23, 59), Summer},
		{"first day of autumn", at(2025, time.September, 22, 0, 0), Autumn},
		{"day before winter", at(2025, time.December, 20, 23, 59), Autumn},
		{"first day of winter", at(2025, time.December, 21, 0, 0), Winter},
		{"mid january is still winter", at(2025, time.January, 15, 12, 0), Winter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.season, SeasonOf(tt.t))
		})
	}
}

func TestSeasonNext(t *testing.T) {
	assert.Equal(t, Summer, Spring.Next())
	assert.Equal(t, Autumn, Summer.Next())
	assert.Equal(t, Winter, Autumn.Next())
	assert.Equal(t, Spring, Winter.Next())
}
