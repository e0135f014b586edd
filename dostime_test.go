package zipvfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDosTimeToUnix(t *testing.T) {
	tests := []struct {
		name                                    string
		year, month, day, hour, minute, second int
	}{
		{"typical", 2023, 6, 15, 14, 30, 42},
		{"epoch-floor", 1980, 1, 1, 0, 0, 0},
		{"odd-second-truncates", 2001, 12, 31, 23, 59, 59},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := uint16((tt.year-1980)<<9 | tt.month<<5 | tt.day)
			clock := uint16(tt.hour<<11 | tt.minute<<5 | (tt.second / 2))
			packed := uint32(date)<<16 | uint32(clock)

			wantSecond := (tt.second / 2) * 2
			want := time.Date(tt.year, time.Month(tt.month), tt.day, tt.hour, tt.minute, wantSecond, 0, time.Local).Unix()

			assert.Equal(t, want, dosTimeToUnix(packed))
		})
	}
}
