package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/currency"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/marketapi"
)

type prefStore struct {
	pref Unit
}

// Unit aliases keep the fixture readable.
type Unit = currency.Unit

func (p *prefStore) LoadPreference() (Unit, bool) { return p.pref, p.pref != "" }
func (p *prefStore) SavePreference(u Unit) error  { p.pref = u; return nil }

func newTestApp(t *testing.T, handler http.Handler, pref Unit) *App {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fx := currency.NewService(&prefStore{pref: pref})
	client := marketapi.NewClient(server.URL, logger)
	return New(client, fx, nil, logger)
}

func listingBody(auctions ...map[string]any) []byte {
	data, _ := json.Marshal(auctions)
	return data
}

func TestRefreshListing_EndedByDeadlineDespiteStoredStatus(t *testing.T) {
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingBody(
			map[string]any{
				"id": "expired", "title": "Expired Lot", "description": "Deadline passed",
				"startingPrice": 100, "currentBid": 250, "status": "active", "endTime": past,
			},
			map[string]any{
				"id": "live", "title": "Live Lot", "description": "Still running",
				"startingPrice": 100, "currentBid": 120, "status": "active", "endTime": future,
			},
		))
	})

	a := newTestApp(t, handler, currency.USD)
	_, err := a.RefreshListing(context.Background())
	assert.Nil(t, err)

	views := a.CardViews(core.ListingQuery{Sort: core.SortEndingSoon})
	assert.Equal(t, 2, len(views))

	// The stored status says active, but the deadline rules: the card must
	// offer payment, not bidding.
	expired := views[0]
	check.Equal(t, "expired", expired.Auction.ID)
	check.Equal(t, core.StatusEnded, expired.Status)
	check.False(t, expired.AcceptsBids)
	check.True(t, expired.OffersPayment)

	live := views[1]
	check.Equal(t, core.StatusActive, live.Status)
	check.True(t, live.AcceptsBids)
	check.False(t, live.OffersPayment)
}

func TestPlaceBid_BelowCurrentPriceSendsNoRequest(t *testing.T) {
	var bidRequests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			bidRequests++
		}
		w.Write(listingBody())
	})

	a := newTestApp(t, handler, currency.USD)
	card := a.NewBidCard(core.Auction{ID: "a1", StartingPrice: 100, CurrentBid: 100})

	_, err := card.PlaceBid(context.Background(), 100) // equal, not strictly greater
	var verr *core.ValidationError
	check.True(t, errors.As(err, &verr))
	check.Equal(t, 0, bidRequests)
	check.Equal(t, BidIdle, card.State())
}

func TestPlaceBid_SuccessRefreshesListingAndReturnsMessageVerbatim(t *testing.T) {
	var mu sync.Mutex
	var listingFetches int

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodPost:
			check.Equal(t, "160", r.URL.Query().Get("bidAmount"))
			w.Write([]byte(`{"message":"Bid placed successfully"}`))
		default:
			listingFetches++
			w.Write(listingBody(map[string]any{
				"id": "a1", "title": "Lot", "description": "desc",
				"startingPrice": 100, "currentBid": 160, "bidCount": 1,
			}))
		}
	})

	a := newTestApp(t, handler, currency.USD)
	card := a.NewBidCard(core.Auction{ID: "a1", StartingPrice: 100, CurrentBid: 150})

	message, err := card.PlaceBid(context.Background(), 160)
	assert.Nil(t, err)
	check.Equal(t, "Bid placed successfully", message)

	mu.Lock()
	fetches := listingFetches
	mu.Unlock()
	check.Equal(t, 1, fetches)

	// The re-fetched snapshot reflects the authoritative post-bid state.
	snapshot := a.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	check.Equal(t, 160.0, snapshot[0].CurrentBid)
	check.Equal(t, 1, snapshot[0].BidCount)
	check.Equal(t, BidIdle, card.State())
}

func TestPlaceBid_ConvertsDisplayAmountToCanonical(t *testing.T) {
	var gotAmount string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			gotAmount = r.URL.Query().Get("bidAmount")
			w.Write([]byte(`{"message":"ok"}`))
			return
		}
		w.Write(listingBody())
	})

	// Display preference INR: current price 100 USD shows as 8500 INR.
	a := newTestApp(t, handler, currency.INR)
	card := a.NewBidCard(core.Auction{ID: "a1", StartingPrice: 100, CurrentBid: 100})

	// 9350 INR is above the 8500 INR current price; canonical conversion
	// rounds to two decimals: 9350 / 85 = 110.
	_, err := card.PlaceBid(context.Background(), 9350)
	assert.Nil(t, err)
	check.Equal(t, "110", gotAmount)
}

func TestPlaceBid_RejectsSecondBidWhileInFlight(t *testing.T) {
	var bidRequests atomic.Int32
	firstArrived := make(chan struct{})
	release := make(chan struct{})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if bidRequests.Add(1) == 1 {
				close(firstArrived)
				<-release // hold the first submission open
			}
			w.Write([]byte(`{"message":"Bid placed successfully"}`))
			return
		}
		w.Write(listingBody())
	})

	a := newTestApp(t, handler, currency.USD)
	card := a.NewBidCard(core.Auction{ID: "a1", StartingPrice: 100, CurrentBid: 100})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		message, err := card.PlaceBid(context.Background(), 150)
		check.Nil(t, err)
		check.Equal(t, "Bid placed successfully", message)
	}()

	// Once the request reaches the server the card is mid-submission.
	<-firstArrived
	check.Equal(t, BidSubmitting, card.State())

	_, err := card.PlaceBid(context.Background(), 200)
	check.True(t, errors.Is(err, ErrBidInFlight))
	check.Equal(t, int32(1), bidRequests.Load())

	close(release)
	wg.Wait()
	check.Equal(t, BidIdle, card.State())
}

func TestPlaceBid_TransportFailureLeavesStateUntouched(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, "bid too low", http.StatusConflict)
			return
		}
		w.Write(listingBody())
	})

	a := newTestApp(t, handler, currency.USD)
	card := a.NewBidCard(core.Auction{ID: "a1", StartingPrice: 100, CurrentBid: 100})

	_, err := card.PlaceBid(context.Background(), 200)
	var terr *marketapi.TransportError
	check.True(t, errors.As(err, &terr))
	check.Equal(t, http.StatusConflict, terr.Status)

	// No optimistic mutation was applied; the card is idle and may retry.
	check.Equal(t, BidIdle, card.State())
	check.Equal(t, 0, len(a.Snapshot()))
}

func TestRefreshListing_FailureRetainsLastGoodSnapshot(t *testing.T) {
	var fail atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "backend down", http.StatusInternalServerError)
			return
		}
		w.Write(listingBody(map[string]any{
			"id": "a1", "title": "Lot", "description": "desc", "startingPrice": 100,
		}))
	})

	a := newTestApp(t, handler, currency.USD)
	_, err := a.RefreshListing(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(a.Snapshot()))

	fail.Store(true)
	snapshot, err := a.RefreshListing(context.Background())
	check.NotNil(t, err)
	check.Equal(t, 1, len(snapshot))
	check.Equal(t, "a1", snapshot[0].ID)
}

func TestRefreshListing_DiscardsStaleResults(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	firstGate := make(chan struct{})
	firstArrived := make(chan struct{})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		n := requests
		mu.Unlock()

		if n == 1 {
			close(firstArrived)
			<-firstGate // hold the first fetch until the second resolves
			w.Write(listingBody(map[string]any{
				"id": "old", "title": "Old Snapshot", "description": "stale", "startingPrice": 1,
			}))
			return
		}
		w.Write(listingBody(map[string]any{
			"id": "new", "title": "New Snapshot", "description": "fresh", "startingPrice": 2,
		}))
	})

	a := newTestApp(t, handler, currency.USD)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = a.RefreshListing(context.Background())
	}()

	<-firstArrived
	_, err := a.RefreshListing(context.Background()) // resolves first
	assert.Nil(t, err)

	close(firstGate)
	wg.Wait()

	// The earlier fetch resolved last; its result must not clobber the
	// newer snapshot.
	snapshot := a.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	check.Equal(t, "new", snapshot[0].ID)
}

func TestFetchAuction_ForcesFreshBidState(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/auctions/a9", r.URL.Path)
		w.Write([]byte(`{"id":"a9","title":"Single Lot","description":"d",` +
			`"startingPrice":100,"currentBid":480,"bidCount":12,"status":"ended"}`))
	})

	a := newTestApp(t, handler, currency.USD)
	got, err := a.FetchAuction(context.Background(), "a9")
	assert.Nil(t, err)

	// The single-lookup endpoint does not report live bid state; the
	// returned lot always carries the fresh-auction fields.
	check.Equal(t, "a9", got.ID)
	check.Equal(t, 100.0, got.CurrentBid)
	check.Equal(t, 0, got.BidCount)
	check.Equal(t, core.StatusActive, got.Status)
}

func TestEndAuction_ReturnsMessageAndRefreshesListing(t *testing.T) {
	var mu sync.Mutex
	var listingFetches int

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPost {
			check.Equal(t, "/auctions/a1/end", r.URL.Path)
			w.Write([]byte(`{"message":"Auction ended successfully"}`))
			return
		}
		listingFetches++
		w.Write(listingBody(map[string]any{
			"id": "a1", "title": "Lot", "description": "desc",
			"startingPrice": 100, "currentBid": 200, "status": "ended",
		}))
	})

	a := newTestApp(t, handler, currency.USD)
	message, err := a.EndAuction(context.Background(), "a1")
	assert.Nil(t, err)
	check.Equal(t, "Auction ended successfully", message)

	mu.Lock()
	fetches := listingFetches
	mu.Unlock()
	check.Equal(t, 1, fetches)

	snapshot := a.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	check.Equal(t, core.StatusEnded, snapshot[0].Status)
}

func TestSuggestedAmount_AddsIncrementInDisplayCurrency(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingBody())
	})

	usd := newTestApp(t, handler, currency.USD)
	card := usd.NewBidCard(core.Auction{ID: "a1", StartingPrice: 100, CurrentBid: 100})
	check.Equal(t, 110.0, card.SuggestedAmount())

	inr := newTestApp(t, handler, currency.INR)
	card = inr.NewBidCard(core.Auction{ID: "a1", StartingPrice: 100, CurrentBid: 100})
	check.Equal(t, 9350.0, card.SuggestedAmount()) // 8500 + 850
}

func TestCreateAuction_ConvertsDaysToSeconds(t *testing.T) {
	var gotBody marketapi.CreateAuctionRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, http.MethodPost, r.Method)
		check.Nil(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprintf(w, `{"id":"new1","title":%q,"description":%q,"startingPrice":%v,"duration":%d}`,
			gotBody.Title, gotBody.Description, gotBody.StartingPrice, gotBody.Duration)
	})

	a := newTestApp(t, handler, currency.USD)
	created, err := a.CreateAuction(context.Background(), CreateAuctionInput{
		Title:         "New Lot",
		Description:   "Fresh",
		StartingPrice: 100,
		DurationDays:  3,
	})
	assert.Nil(t, err)

	check.Equal(t, int64(3*86400), gotBody.Duration)
	check.Equal(t, "0x0000000000000000000000000000000000000000", gotBody.SellerAddress)
	check.Equal(t, core.DefaultCategory, gotBody.Category)

	// Creation responses get the single-item normalization.
	check.Equal(t, "new1", created.ID)
	check.Equal(t, 100.0, created.CurrentBid)
	check.Equal(t, 0, created.BidCount)
	check.Equal(t, core.StatusActive, created.Status)
}

func TestCreateAuction_Validation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent for invalid input")
	})
	a := newTestApp(t, handler, currency.USD)

	tests := []struct {
		name  string
		input CreateAuctionInput
	}{
		{"missing title", CreateAuctionInput{Description: "d", StartingPrice: 1, DurationDays: 1}},
		{"missing description", CreateAuctionInput{Title: "t", StartingPrice: 1, DurationDays: 1}},
		{"zero price", CreateAuctionInput{Title: "t", Description: "d", DurationDays: 1}},
		{"zero duration", CreateAuctionInput{Title: "t", Description: "d", StartingPrice: 1}},
		{"unknown category", CreateAuctionInput{Title: "t", Description: "d", StartingPrice: 1, DurationDays: 1, Category: "Spaceships"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.CreateAuction(context.Background(), tt.input)
			var verr *core.ValidationError
			check.True(t, errors.As(err, &verr))
		})
	}
}

func TestPaymentFor_FeeAndTotal(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingBody())
	})

	a := newTestApp(t, handler, currency.USD)
	summary := a.PaymentFor(core.Auction{Title: "Won Lot", StartingPrice: 100, CurrentBid: 200})

	check.Equal(t, "Won Lot", summary.Item)
	check.Equal(t, 200.0, summary.WinningBid)
	check.Equal(t, 10.0, summary.ProcessingFee) // 5%, whole display units
	check.Equal(t, 210.0, summary.Total)
	check.Equal(t, "$", summary.Symbol)
}
