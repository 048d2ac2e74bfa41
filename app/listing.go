package app

import (
	"context"
	"time"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
)

// RefreshListing fetches the listing, normalizes every record against the
// fetch instant, and replaces the snapshot wholesale. Concurrent refreshes
// are not guaranteed to resolve in issue order, so each fetch carries a
// sequence number and a result older than the last applied one is discarded
// on arrival. On fetch failure the last-good snapshot is retained and the
// error is returned for the caller to surface.
func (a *App) RefreshListing(ctx context.Context) ([]core.Auction, error) {
	a.mu.Lock()
	a.nextSeq++
	seq := a.nextSeq
	a.mu.Unlock()

	records, err := a.api.ListAuctions(ctx)
	if err != nil {
		a.log.Warn("listing refresh failed, retaining previous snapshot", "error", err)
		return a.Snapshot(), err
	}

	fetchedAt := time.Now()
	auctions := make([]core.Auction, len(records))
	for i, rec := range records {
		auctions[i] = core.Normalize(rec, fetchedAt)
	}

	a.mu.Lock()
	if seq <= a.appliedSeq {
		// A newer refresh already resolved; this result is stale.
		a.log.Debug("discarding stale listing result", "seq", seq, "applied", a.appliedSeq)
		current := append([]core.Auction(nil), a.snapshot...)
		a.mu.Unlock()
		return current, nil
	}
	a.appliedSeq = seq
	a.snapshot = auctions
	a.mu.Unlock()

	if a.store != nil {
		if err := a.store.SaveSnapshot(auctions); err != nil {
			a.log.Warn("failed to persist listing snapshot", "error", err)
		}
	}

	a.log.Info("listing refreshed", "count", len(auctions))
	return append([]core.Auction(nil), auctions...), nil
}

// Snapshot returns a copy of the current listing snapshot.
func (a *App) Snapshot() []core.Auction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]core.Auction(nil), a.snapshot...)
}

// Listing applies the search/category/sort projection over the current
// snapshot.
func (a *App) Listing(q core.ListingQuery) []core.Auction {
	return core.ApplyListingQuery(a.Snapshot(), q)
}

// FetchAuction fetches and normalizes a single lot. The single-lookup
// endpoint does not report live bid state, so the returned auction carries
// the forced fresh-auction fields (see core.NormalizeSingle).
func (a *App) FetchAuction(ctx context.Context, id string) (core.Auction, error) {
	rec, err := a.api.GetAuction(ctx, id)
	if err != nil {
		return core.Auction{}, err
	}
	return core.NormalizeSingle(rec, time.Now()), nil
}

// EndAuction asks the backend to close a lot early and returns its
// confirmation message.
func (a *App) EndAuction(ctx context.Context, id string) (string, error) {
	resp, err := a.api.EndAuction(ctx, id)
	if err != nil {
		return "", err
	}
	if _, rerr := a.RefreshListing(ctx); rerr != nil {
		a.log.Warn("post-end listing refresh failed", "error", rerr)
	}
	return resp.Message, nil
}
