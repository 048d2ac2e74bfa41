package app

import (
	"context"
	"errors"
	"sync"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/currency"
)

// ErrBidInFlight is returned when a card already has an outstanding bid
// submission; the control stays disabled until the round trip resolves.
var ErrBidInFlight = errors.New("a bid is already being placed for this auction")

// BidState is the per-card submission state.
type BidState int

const (
	BidIdle BidState = iota
	BidValidating
	BidSubmitting
)

// BidCard is the bid coordinator for one auction-card instance. No state
// survives the instance: an abandoned card simply drops its in-flight
// status, which is acceptable because submission is a single
// request-response round trip.
type BidCard struct {
	app     *App
	auction core.Auction

	mu    sync.Mutex
	state BidState
}

// NewBidCard mounts a bid coordinator for one auction.
func (a *App) NewBidCard(auction core.Auction) *BidCard {
	return &BidCard{app: a, auction: auction}
}

// State reports the current submission state.
func (bc *BidCard) State() BidState {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.state
}

// SuggestedAmount is the pre-filled bid value in display currency: the
// current price plus the fixed canonical increment. Purely a UX default;
// the enforced floor is "strictly greater than the current price".
func (bc *BidCard) SuggestedAmount() float64 {
	fx := bc.app.fx
	return fx.Convert(bc.auction.Price(), currency.USD) + fx.Convert(core.MinBidIncrement, currency.USD)
}

// PlaceBid validates a display-currency candidate against the authoritative
// current price, converts it to canonical currency, and submits it. On
// success the listing is re-fetched wholesale (the bid endpoint returns no
// snapshot) and the backend's confirmation message is returned verbatim.
// On any failure local state is untouched and the card returns to idle so
// the user can retry with a corrected amount.
func (bc *BidCard) PlaceBid(ctx context.Context, displayAmount float64) (string, error) {
	bc.mu.Lock()
	if bc.state != BidIdle {
		bc.mu.Unlock()
		return "", ErrBidInFlight
	}
	bc.state = BidValidating
	bc.mu.Unlock()

	candidate := core.BidCandidate{AuctionID: bc.auction.ID, Amount: displayAmount}
	currentDisplay := bc.app.fx.Convert(bc.auction.Price(), currency.USD)
	if err := core.ValidateBid(candidate, currentDisplay); err != nil {
		bc.setState(BidIdle)
		return "", err
	}

	bc.setState(BidSubmitting)
	canonical := bc.app.fx.Canonical(candidate.Amount)
	resp, err := bc.app.api.PlaceBid(ctx, candidate.AuctionID, canonical)
	bc.setState(BidIdle)
	if err != nil {
		return "", err
	}

	// Full re-fetch, not a local patch: bid count, price and status must all
	// reflect the authoritative post-bid state. A refresh failure does not
	// undo the accepted bid, it only delays the updated view.
	if _, rerr := bc.app.RefreshListing(ctx); rerr != nil {
		bc.app.log.Warn("post-bid listing refresh failed", "auction_id", bc.auction.ID, "error", rerr)
	}

	return resp.Message, nil
}

func (bc *BidCard) setState(s BidState) {
	bc.mu.Lock()
	bc.state = s
	bc.mu.Unlock()
}
