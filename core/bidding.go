package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinBidIncrement is the suggested opening increment over the current price,
// in canonical currency. It seeds the bid input when a card mounts; the
// enforced floor is only "strictly greater than the current price".
const MinBidIncrement = 10.0

// monetaryPrecision bounds bid comparisons to two decimal places so float
// noise from currency conversion cannot flip a validation verdict.
const monetaryPrecision int32 = 2

// ValidationError reports a locally rejected input. It is fully recoverable:
// nothing was sent, the user corrects the value and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateBid checks a candidate bid against the current price, both in the
// same display currency. The candidate amount must be strictly greater; an
// equal amount is rejected. Uses decimal comparison at monetaryPrecision.
func ValidateBid(candidate BidCandidate, currentPrice float64) error {
	candidateDec := decimal.NewFromFloat(candidate.Amount).Round(monetaryPrecision)
	currentDec := decimal.NewFromFloat(currentPrice).Round(monetaryPrecision)

	if !candidateDec.GreaterThan(currentDec) {
		return &ValidationError{
			Field:  "bidAmount",
			Reason: "bid must be higher than the current bid",
		}
	}
	return nil
}
