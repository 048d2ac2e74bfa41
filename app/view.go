package app

import (
	"time"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/currency"
)

// CardView is one auction prepared for rendering at a given instant. Status
// and countdown are derived from EndTime on every pass; the stored status
// field is never trusted for the bid-form/payment decision.
type CardView struct {
	Auction   core.Auction
	Status    core.Status
	Countdown core.Countdown

	// CurrentPrice and StartingPrice are formatted in the display currency.
	CurrentPrice  string
	StartingPrice string
	Symbol        string

	// SuggestedBid is the pre-filled bid amount in display currency.
	SuggestedBid float64

	// AcceptsBids is true only while the effective status is active; once
	// it drops, the card offers payment instead.
	AcceptsBids   bool
	OffersPayment bool
}

// CardViewAt derives the render-time view of one auction.
func (a *App) CardViewAt(auction core.Auction, now time.Time) CardView {
	status := auction.EffectiveStatus(now)
	countdown := core.CountdownAt(auction.EndTime, now)
	active := status == core.StatusActive && countdown.Active

	return CardView{
		Auction:       auction,
		Status:        status,
		Countdown:     countdown,
		CurrentPrice:  a.fx.Format(auction.Price()),
		StartingPrice: a.fx.Format(auction.StartingPrice),
		Symbol:        a.fx.Symbol(),
		SuggestedBid:  a.fx.Convert(auction.Price(), currency.USD) + a.fx.Convert(core.MinBidIncrement, currency.USD),
		AcceptsBids:   active,
		OffersPayment: status == core.StatusEnded,
	}
}

// CardViews renders the projected listing at the current instant.
func (a *App) CardViews(q core.ListingQuery) []CardView {
	now := a.now()
	auctions := a.Listing(q)
	views := make([]CardView, len(auctions))
	for i, auction := range auctions {
		views[i] = a.CardViewAt(auction, now)
	}
	return views
}
