package core

import (
	"sort"
	"strings"
)

// SortKey selects the listing ordering.
type SortKey string

const (
	SortEndingSoon SortKey = "ending-soon" // ascending end time
	SortHighestBid SortKey = "highest-bid" // descending current bid
	SortMostBids   SortKey = "most-bids"   // descending bid count
)

// ListingQuery is the presentation projection applied over the normalized
// auction collection. The zero value means: no search text, every category,
// ending-soon ordering.
type ListingQuery struct {
	Search   string
	Category string
	Sort     SortKey
}

// FilterAuctions keeps auctions whose title or description contains the
// search text (case-insensitive) and whose category matches. An empty or
// CategoryAll category matches everything. Records with a missing title or
// description are dropped defensively; the normalizer should never produce
// them, but the aggregator must not fault on them either.
func FilterAuctions(auctions []Auction, search, category string) []Auction {
	needle := strings.ToLower(search)
	out := make([]Auction, 0, len(auctions))

	for _, a := range auctions {
		if a.Title == "" || a.Description == "" {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Title), needle) &&
			!strings.Contains(strings.ToLower(a.Description), needle) {
			continue
		}
		if category != "" && category != CategoryAll && a.Category != category {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SortAuctions orders the slice in place by the given key. The sort is
// stable: ties keep their prior relative order so repeated re-renders over
// unchanged data never reshuffle cards. An unknown key leaves the order
// untouched.
func SortAuctions(auctions []Auction, key SortKey) {
	switch key {
	case SortEndingSoon:
		sort.SliceStable(auctions, func(i, j int) bool {
			return auctions[i].EndTime.Before(auctions[j].EndTime)
		})
	case SortHighestBid:
		sort.SliceStable(auctions, func(i, j int) bool {
			return auctions[i].CurrentBid > auctions[j].CurrentBid
		})
	case SortMostBids:
		sort.SliceStable(auctions, func(i, j int) bool {
			return auctions[i].BidCount > auctions[j].BidCount
		})
	}
}

// ApplyListingQuery runs the full projection: filter, then stable sort.
// The input slice is not modified.
func ApplyListingQuery(auctions []Auction, q ListingQuery) []Auction {
	filtered := FilterAuctions(auctions, q.Search, q.Category)
	SortAuctions(filtered, q.Sort)
	return filtered
}
