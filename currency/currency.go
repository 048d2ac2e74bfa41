// Package currency normalizes monetary amounts between the canonical backend
// currency (USD-equivalent) and the user-selected display currency.
//
// Rounding is deliberately asymmetric: canonical→display rounds to whole
// display units (the display currencies here carry no fractional subunit in
// normal use) while display→canonical rounds to two decimal places, so the
// backend never receives fractional amounts it cannot represent. The
// round-trip Convert(Convert(x)) is therefore not guaranteed to reproduce x
// exactly; the error is bounded by one display unit.
package currency

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Unit is a supported currency unit.
type Unit string

const (
	// USD is the canonical unit: the backend stores and accepts all
	// amounts in it.
	USD Unit = "USD"
	// INR is the alternative display unit.
	INR Unit = "INR"
)

// Rate is the fixed exchange constant: display units per canonical unit
// (1 USD = 85 INR). Rate discovery is out of scope.
var Rate = decimal.NewFromInt(85)

// PreferenceStore persists the display-currency preference across sessions.
type PreferenceStore interface {
	LoadPreference() (Unit, bool)
	SavePreference(Unit) error
}

// Service holds the active display preference and performs all conversion,
// rounding and formatting. Reads and writes of the preference are guarded so
// the service is safe to share.
type Service struct {
	mu    sync.RWMutex
	pref  Unit
	store PreferenceStore

	printers map[Unit]*message.Printer
}

// NewService initializes the service from the persisted preference, falling
// back to INR when nothing is stored.
func NewService(store PreferenceStore) *Service {
	pref := INR
	if store != nil {
		if saved, ok := store.LoadPreference(); ok && (saved == USD || saved == INR) {
			pref = saved
		}
	}

	return &Service{
		pref:  pref,
		store: store,
		printers: map[Unit]*message.Printer{
			USD: message.NewPrinter(language.AmericanEnglish),
			INR: message.NewPrinter(language.MustParse("en-IN")),
		},
	}
}

// Preference returns the active display unit.
func (s *Service) Preference() Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pref
}

// SetPreference updates the in-memory preference and the persisted copy
// before returning, so any computation issued afterwards observes the new
// unit. An invalid unit is ignored. A persistence failure is reported but
// the in-memory switch still takes effect; availability over strictness.
func (s *Service) SetPreference(u Unit) error {
	if u != USD && u != INR {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pref = u
	if s.store != nil {
		return s.store.SavePreference(u)
	}
	return nil
}

// Convert expresses amount, given in sourceUnit, in the active display
// preference. Identity when sourceUnit already matches the preference.
func (s *Service) Convert(amount float64, sourceUnit Unit) float64 {
	return s.convertTo(amount, sourceUnit, s.Preference())
}

// Canonical expresses a display-currency amount in the canonical unit,
// applying the two-decimal display→canonical rounding. This is the
// conversion used for bid submission.
func (s *Service) Canonical(amount float64) float64 {
	return s.convertTo(amount, s.Preference(), USD)
}

func (s *Service) convertTo(amount float64, from, to Unit) float64 {
	if from == to {
		return amount
	}

	d := decimal.NewFromFloat(amount)
	switch {
	case from == USD && to == INR:
		d = d.Mul(Rate).Round(0)
	case from == INR && to == USD:
		d = d.Div(Rate).Round(2)
	default:
		return amount
	}

	out, _ := d.Float64()
	return out
}

// Format renders a canonical-currency amount in the active display unit with
// locale-appropriate digit grouping (Indian grouping for INR). Non-numeric
// input (NaN, ±Inf) renders as "0"; Format never fails.
func (s *Service) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0"
	}

	pref := s.Preference()
	converted := s.convertTo(amount, USD, pref)

	p := s.printers[pref]
	if converted == math.Trunc(converted) {
		return p.Sprint(number.Decimal(int64(converted)))
	}
	return p.Sprint(number.Decimal(converted, number.MaxFractionDigits(2)))
}

// Symbol returns the glyph for the active display unit.
func (s *Service) Symbol() string {
	if s.Preference() == INR {
		return "₹"
	}
	return "$"
}
