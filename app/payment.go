package app

import (
	"github.com/shopspring/decimal"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/currency"
)

// processingFeeRate is the marketplace fee applied to a won lot.
var processingFeeRate = decimal.NewFromFloat(0.05)

// PaymentSummary is the order summary for a won auction, in display
// currency. Payment collection and verification are external concerns; this
// only prepares the figures.
type PaymentSummary struct {
	Item          string
	WinningBid    float64
	ProcessingFee float64
	Total         float64
	Symbol        string
}

// PaymentFor builds the order summary for an ended auction. The fee is five
// percent of the winning bid, rounded to whole display units; the total is
// bid plus fee so the summary always adds up.
func (a *App) PaymentFor(auction core.Auction) PaymentSummary {
	bid := a.fx.Convert(auction.Price(), currency.USD)

	fee, _ := decimal.NewFromFloat(bid).Mul(processingFeeRate).Round(0).Float64()

	return PaymentSummary{
		Item:          auction.Title,
		WinningBid:    bid,
		ProcessingFee: fee,
		Total:         bid + fee,
		Symbol:        a.fx.Symbol(),
	}
}
