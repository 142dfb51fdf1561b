package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpace_ApplyRating(t *testing.T) {
	tests := []struct {
		name      string
		avg       float64
		count     int64
		rating    int
		wantAvg   float64
		wantCount int64
	}{
		{"first rating", 0, 0, 5, 5.0, 1},
		{"existing average pulled up", 4.0, 2, 5, 13.0 / 3.0, 3},
		{"existing average pulled down", 4.0, 2, 1, 3.0, 3},
		{"rating equal to average keeps it", 3.0, 4, 3, 3.0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Space{RatingAverage: tt.avg, RatingCount: tt.count}
			s.ApplyRating(tt.rating)
			assert.InDelta(t, tt.wantAvg, s.RatingAverage, 1e-9)
			assert.Equal(t, tt.wantCount, s.RatingCount)
		})
	}
}

func TestSpace_ApplyRating_SequenceMatchesPlainMean(t *testing.T) {
	s := &Space{}
	for _, r := range []int{5, 3, 4, 4, 2} {
		s.ApplyRating(r)
	}
	assert.InDelta(t, 18.0/5.0, s.RatingAverage, 1e-9)
	assert.Equal(t, int64(5), s.RatingCount)
}

func TestSpace_Bookable(t *testing.T) {
	assert.True(t, (&Space{IsActive: true, IsAvailable: true}).Bookable())
	assert.False(t, (&Space{IsActive: true, IsAvailable: false}).Bookable())
	assert.False(t, (&Space{IsActive: false, IsAvailable: true}).Bookable())
}
