package model_test

import (
	"bookpay/internal/domains/booking/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaidProgress(t *testing.T) {
	tests := []struct {
		name           string
		price          float64
		balance        float64
		wantPaid       float64
		wantPercentage float64
	}{
		{"partially paid", 5000, 3000, 2000, 40},
		{"fully paid", 5000, 0, 5000, 100},
		{"nothing paid", 5000, 5000, 0, 0},
		{"free booking", 0, 0, 0, 0},
		{"repeating fraction", 3000, 2000, 1000, 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, percentage := model.PaidProgress(tt.price, tt.balance)

			assert.InDelta(t, tt.wantPaid, paid, 0.001)
			assert.InDelta(t, tt.wantPercentage, percentage, 0.001)
		})
	}
}

func TestBooking_GetJoinQuery(t *testing.T) {
	assert.Contains(t, model.Booking{}.GetJoinQuery(), "LEFT JOIN package")
}
