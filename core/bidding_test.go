package core

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestValidateBid(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		current   float64
		accepted  bool
	}{
		{"above current price", 110, 100, true},
		{"one unit above", 101, 100, true},
		{"one subunit above", 100.01, 100, true},
		{"equal to current price rejected", 100, 100, false},
		{"below current price rejected", 90, 100, false},
		{"zero rejected", 0, 100, false},
		{"float noise below comparison precision rejected", 100.0000001, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBid(BidCandidate{AuctionID: "a1", Amount: tt.candidate}, tt.current)
			if tt.accepted {
				check.Nil(t, err)
			} else {
				check.NotNil(t, err)
				var verr *ValidationError
				check.True(t, errors.As(err, &verr))
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "bidAmount", Reason: "bid must be higher than the current bid"}
	check.Equal(t, "bidAmount: bid must be higher than the current bid", err.Error())

	bare := &ValidationError{Reason: "required"}
	check.Equal(t, "required", bare.Error())
}
