package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoctorShift_Covers(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		covered    []int
		notCovered []int
	}{
		{name: "day", start: 8, end: 16, covered: []int{8, 12, 15}, notCovered: []int{7, 16, 23}},
		{name: "wraps midnight", start: 22, end: 6, covered: []int{22, 23, 0, 5}, notCovered: []int{6, 12, 21}},
		{name: "full day", start: 0, end: 0, covered: []int{0, 11, 23}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift := DoctorShift{StartHour: tt.start, EndHour: tt.end}
			for _, hour := range tt.covered {
				assert.True(t, shift.Covers(hour), "hour %d", hour)
			}
			for _, hour := range tt.notCovered {
				assert.False(t, shift.Covers(hour), "hour %d", hour)
			}
		})
	}
}

func TestDoctorShift_EffectiveAt(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	shift := DoctorShift{EffectiveFrom: &from, EffectiveTo: &to}

	assert.False(t, shift.EffectiveAt(from.Add(-time.Second)))
	assert.True(t, shift.EffectiveAt(from))
	assert.True(t, shift.EffectiveAt(to.Add(-time.Second)))
	assert.False(t, shift.EffectiveAt(to))
}
