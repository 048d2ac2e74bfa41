package app

import (
	"context"
	"time"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/marketapi"
)

// placeholderSeller is sent until wallet binding exists; the backend assigns
// the real seller address at settlement time.
const placeholderSeller = "0x0000000000000000000000000000000000000000"

const secondsPerDay = 86400

// CreateAuctionInput collects the authoring form's fields. Duration is
// authored in days; the backend contract takes seconds.
type CreateAuctionInput struct {
	Title         string
	Description   string
	ImageURL      string
	StartingPrice float64 // canonical currency
	DurationDays  int64
	Category      string
}

// CreateAuction validates the input, converts the duration to seconds, and
// submits the lot. The returned auction is normalized with the single-item
// rules (fresh-auction bid state).
func (a *App) CreateAuction(ctx context.Context, in CreateAuctionInput) (core.Auction, error) {
	if in.Title == "" {
		return core.Auction{}, &core.ValidationError{Field: "title", Reason: "required"}
	}
	if in.Description == "" {
		return core.Auction{}, &core.ValidationError{Field: "description", Reason: "required"}
	}
	if in.StartingPrice <= 0 {
		return core.Auction{}, &core.ValidationError{Field: "startingPrice", Reason: "must be greater than zero"}
	}
	if in.DurationDays < 1 {
		return core.Auction{}, &core.ValidationError{Field: "duration", Reason: "must be at least one day"}
	}
	if in.Category != "" && !core.ValidCategory(in.Category) {
		return core.Auction{}, &core.ValidationError{Field: "category", Reason: "unknown category"}
	}

	category := in.Category
	if category == "" {
		category = core.DefaultCategory
	}

	rec, err := a.api.CreateAuction(ctx, marketapi.CreateAuctionRequest{
		Title:         in.Title,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		StartingPrice: in.StartingPrice,
		Duration:      in.DurationDays * secondsPerDay,
		SellerAddress: placeholderSeller,
		Category:      category,
	})
	if err != nil {
		return core.Auction{}, err
	}

	created := core.NormalizeSingle(rec, time.Now())
	if created.Category == core.DefaultCategory && category != core.DefaultCategory {
		// Some backend versions drop the category on creation; keep the
		// authored value for the local view.
		created.Category = category
	}

	a.log.Info("auction created", "id", created.ID, "title", created.Title)
	return created, nil
}
