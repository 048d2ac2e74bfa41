package core

import (
	"encoding/json"
	"time"
)

// AuctionRecord is the loosely-typed shape of an auction as the backend
// reports it. Every field the backend may omit is a pointer, so absence is
// distinguishable from a zero value. All leniency toward the backend lives
// here and in Normalize; the rest of the codebase only ever sees Auction.
type AuctionRecord struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ImageURL      string     `json:"imageUrl"`
	SellerAddress string     `json:"sellerAddress"`
	Category      string     `json:"category"`
	StartingPrice *float64   `json:"startingPrice"`
	CurrentBid    *float64   `json:"currentBid"`
	BidCount      *int       `json:"bidCount"`
	Duration      *int64     `json:"duration"`
	Status        string     `json:"status"`
	EndTime       *Timestamp `json:"endTime"`
}

// Timestamp accepts the timestamp encodings observed from the backend:
// RFC 3339 strings, zone-less ISO strings, and numeric epoch values
// (seconds or milliseconds). Anything unparseable decodes to the zero time,
// which Normalize treats as absent.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		t.Time = time.Time{}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		// Heuristic: values past the year 2286 in seconds are milliseconds.
		if n > 1e12 {
			t.Time = time.UnixMilli(int64(n))
		} else {
			t.Time = time.Unix(int64(n), 0)
		}
		return nil
	}

	t.Time = time.Time{}
	return nil
}

// DecodeRecords decodes a listing response body. Each element is decoded
// independently: a malformed element becomes the zero AuctionRecord instead
// of failing the whole listing, so the listing length always matches what
// the backend sent.
func DecodeRecords(data []byte) ([]AuctionRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	records := make([]AuctionRecord, len(raw))
	for i, elem := range raw {
		var rec AuctionRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			rec = AuctionRecord{}
		}
		records[i] = rec
	}
	return records, nil
}

// Normalize maps a raw backend record into a complete Auction. For every
// field: use the source value when present and well-formed, else substitute
// the documented default. fetchedAt anchors the endTime derivation for
// records that carry no explicit end time; callers must pass the fetch
// instant, not the render instant, or the deadline slides forward on every
// render.
func Normalize(rec AuctionRecord, fetchedAt time.Time) Auction {
	a := Auction{
		ID:            rec.ID,
		Title:         rec.Title,
		Description:   rec.Description,
		ImageURL:      rec.ImageURL,
		SellerAddress: rec.SellerAddress,
		Category:      rec.Category,
		Status:        StatusActive,
	}

	if a.Title == "" {
		a.Title = DefaultTitle
	}
	if a.Description == "" {
		a.Description = DefaultDescription
	}
	if a.Category == "" {
		a.Category = DefaultCategory
	}

	if rec.StartingPrice != nil && *rec.StartingPrice > 0 {
		a.StartingPrice = *rec.StartingPrice
	}
	if rec.CurrentBid != nil && *rec.CurrentBid > a.StartingPrice {
		a.CurrentBid = *rec.CurrentBid
	} else {
		// Absent or below the starting price: the current bid is always
		// populated, pinned to the starting price.
		a.CurrentBid = a.StartingPrice
	}
	if rec.BidCount != nil && *rec.BidCount > 0 {
		a.BidCount = *rec.BidCount
	}
	if rec.Duration != nil && *rec.Duration > 0 {
		a.Duration = *rec.Duration
	}

	switch Status(rec.Status) {
	case StatusActive, StatusEnded, StatusPending:
		a.Status = Status(rec.Status)
	}

	if rec.EndTime != nil && !rec.EndTime.IsZero() {
		a.EndTime = rec.EndTime.Time
	} else {
		a.EndTime = fetchedAt.Add(time.Duration(a.Duration) * time.Second)
	}

	return a
}

// NormalizeSingle applies the same default rules as Normalize, then forces
// the live-bid fields to their fresh-auction values: the single-lookup
// endpoint does not report live bid state yet, so currentBid, bidCount,
// status and endTime are rebuilt from the static record. This asymmetry with
// listing normalization is intentional.
func NormalizeSingle(rec AuctionRecord, fetchedAt time.Time) Auction {
	a := Normalize(rec, fetchedAt)
	a.CurrentBid = a.StartingPrice
	a.BidCount = 0
	a.Status = StatusActive
	a.EndTime = fetchedAt.Add(time.Duration(a.Duration) * time.Second)
	return a
}
