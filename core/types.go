package core

import "time"

// Status is the lifecycle state reported by the backend for an auction.
// It is a cache hint only: the effective active/ended classification is
// always recomputed from EndTime (see EffectiveStatus).
type Status string

const (
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
	StatusPending Status = "pending"
)

// Defaults substituted by the normalizer when the backend omits a field.
const (
	DefaultTitle       = "Untitled Auction"
	DefaultDescription = "No description"
	DefaultCategory    = "Other"
)

// CategoryAll is the sentinel category filter value that matches every auction.
const CategoryAll = "all"

// Categories is the fixed category set offered by the listing filter,
// with the sentinel first so selectors can default to it.
var Categories = []string{CategoryAll, "Art", "Watches", "Collectibles", "Antiques", "Jewelry"}

// ValidCategory reports whether name is a concrete category a lot can carry.
// The filter sentinel CategoryAll is not a lot category; the normalizer's
// DefaultCategory always is.
func ValidCategory(name string) bool {
	if name == DefaultCategory {
		return true
	}
	for _, c := range Categories {
		if c != CategoryAll && c == name {
			return true
		}
	}
	return false
}

// Auction is the normalized local view of a lot. All monetary amounts are in
// canonical currency (USD-equivalent). Instances are rebuilt on every fetch;
// nothing patches them incrementally.
type Auction struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url,omitempty"`
	SellerAddress string    `json:"seller_address,omitempty"`
	Category      string    `json:"category"`
	StartingPrice float64   `json:"starting_price"`
	CurrentBid    float64   `json:"current_bid"`
	BidCount      int       `json:"bid_count"`
	Duration      int64     `json:"duration"` // seconds, as supplied at creation
	EndTime       time.Time `json:"end_time"`
	Status        Status    `json:"status"`
}

// Price returns the authoritative current price of the lot: the current bid,
// which the normalizer guarantees is never below the starting price.
func (a *Auction) Price() float64 {
	if a.CurrentBid >= a.StartingPrice {
		return a.CurrentBid
	}
	return a.StartingPrice
}

// EffectiveStatus classifies the auction at the given instant. A past
// EndTime always wins over the stored status, so a record the backend still
// reports as active is classified ended once its deadline passes.
func (a *Auction) EffectiveStatus(now time.Time) Status {
	if !a.EndTime.After(now) {
		return StatusEnded
	}
	return a.Status
}

// BidCandidate is an ephemeral bid entered by the user. Amount is in the
// user's display currency; it is converted to canonical currency only at
// submission time.
type BidCandidate struct {
	AuctionID string
	Amount    float64
}
