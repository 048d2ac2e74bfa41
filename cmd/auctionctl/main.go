// Command auctionctl is a terminal client for the auction marketplace:
// browse lots, place bids, create auctions, manage the session and the
// display currency.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/app"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/config"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/currency"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/marketapi"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/store"
)

// errRequestRejected marks a backend refusal whose message was already
// printed; main maps it to exit status 1 without printing again. Returning
// it instead of exiting inside a command lets run's deferred cleanup fire.
var errRequestRejected = errors.New("request rejected")

func main() {
	err := run(os.Args[1:])
	if err == nil {
		return
	}
	if errors.Is(err, errRequestRejected) {
		os.Exit(1)
	}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(os.Stderr, "invalid input: %v\n", verr)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(2)
}

func run(args []string) error {
	if len(args) == 0 {
		showUsage()
		return errors.New("a command is required")
	}

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer st.Close()

	fx := currency.NewService(st)
	client := marketapi.NewClient(cfg.APIBaseURL, logger).
		WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	a := app.New(client, fx, st, logger)

	ctx := context.Background()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		return runList(ctx, a, rest)
	case "bid":
		return runBid(ctx, a, rest)
	case "create":
		return runCreate(ctx, a, rest)
	case "end":
		return runEnd(ctx, a, rest)
	case "login":
		return runLogin(ctx, a, rest)
	case "register":
		return runRegister(ctx, a, rest)
	case "logout":
		return runLogout(a)
	case "currency":
		return runCurrency(a, rest)
	case "help", "-h", "--help":
		showUsage()
		return nil
	default:
		showUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	}))
}

func runList(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	search := fs.String("search", "", "Search text over title and description")
	category := fs.String("category", core.CategoryAll, "Category filter ('all' for every category)")
	sortKey := fs.String("sort", string(core.SortEndingSoon), "Sort: ending-soon, highest-bid or most-bids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *category != "" && *category != core.CategoryAll && !core.ValidCategory(*category) {
		return &core.ValidationError{Field: "category", Reason: "unknown category"}
	}

	if _, err := a.RefreshListing(ctx); err != nil {
		// The last-good snapshot, if any, is still rendered below.
		fmt.Fprintf(os.Stderr, "warning: refresh failed, showing last known listing: %v\n", err)
	}

	views := a.CardViews(core.ListingQuery{
		Search:   *search,
		Category: *category,
		Sort:     core.SortKey(*sortKey),
	})
	if len(views) == 0 {
		fmt.Println("No auctions found matching your criteria")
		return nil
	}

	for _, v := range views {
		au := v.Auction
		fmt.Printf("%s  %s\n", au.ID, au.Title)
		fmt.Printf("    category: %s  bids: %d  current: %s%s  [%s]  %s\n",
			au.Category, au.BidCount, v.Symbol, v.CurrentPrice, v.Status, v.Countdown)
		if v.OffersPayment {
			p := a.PaymentFor(au)
			fmt.Printf("    payment due: %s%.0f (bid %s%.0f + fee %s%.0f)\n",
				p.Symbol, p.Total, p.Symbol, p.WinningBid, p.Symbol, p.ProcessingFee)
		}
	}
	return nil
}

func runBid(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("bid", flag.ContinueOnError)
	auctionID := fs.String("auction", "", "Auction ID to bid on")
	amount := fs.Float64("amount", 0, "Bid amount in the display currency (0 uses the suggested amount)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *auctionID == "" {
		return &core.ValidationError{Field: "auction", Reason: "required"}
	}

	auctions, err := a.RefreshListing(ctx)
	if err != nil {
		return err
	}

	var target *core.Auction
	for i := range auctions {
		if auctions[i].ID == *auctionID {
			target = &auctions[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("auction %s not found", *auctionID)
	}

	card := a.NewBidCard(*target)
	bidAmount := *amount
	if bidAmount == 0 {
		bidAmount = card.SuggestedAmount()
		fmt.Printf("Using suggested bid: %s%v\n", a.Currency().Symbol(), bidAmount)
	}

	message, err := card.PlaceBid(ctx, bidAmount)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func runCreate(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	title := fs.String("title", "", "Auction title")
	description := fs.String("description", "", "Auction description")
	imageURL := fs.String("image", "", "Image URL (optional)")
	price := fs.Float64("price", 0, "Starting price in canonical currency (USD)")
	days := fs.Int64("days", 7, "Auction duration in days")
	category := fs.String("category", "", "Category (defaults to Other)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := a.CreateAuction(ctx, app.CreateAuctionInput{
		Title:         *title,
		Description:   *description,
		ImageURL:      *imageURL,
		StartingPrice: *price,
		DurationDays:  *days,
		Category:      *category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created auction %s: %s (ends %s)\n", created.ID, created.Title, created.EndTime.Format(time.RFC1123))
	return nil
}

func runEnd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("end", flag.ContinueOnError)
	auctionID := fs.String("auction", "", "Auction ID to end")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *auctionID == "" {
		return &core.ValidationError{Field: "auction", Reason: "required"}
	}

	message, err := a.EndAuction(ctx, *auctionID)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func runLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	if !resp.Success {
		return errRequestRejected
	}
	return nil
}

func runRegister(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "Username")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	firstName := fs.String("first-name", "", "First name")
	lastName := fs.String("last-name", "", "Last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.Register(ctx, marketapi.RegisterRequest{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	if !resp.Success {
		return errRequestRejected
	}
	return nil
}

func runLogout(a *app.App) error {
	if err := a.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runCurrency(a *app.App, args []string) error {
	fx := a.Currency()
	if len(args) == 0 {
		fmt.Printf("Display currency: %s (%s)\n", fx.Preference(), fx.Symbol())
		return nil
	}

	unit := currency.Unit(args[0])
	if unit != currency.USD && unit != currency.INR {
		return fmt.Errorf("unsupported currency %q (use USD or INR)", args[0])
	}
	if err := fx.SetPreference(unit); err != nil {
		return err
	}
	fmt.Printf("Display currency set to %s (%s)\n", fx.Preference(), fx.Symbol())
	return nil
}

func showUsage() {
	fmt.Fprintf(os.Stderr, `Usage: auctionctl <command> [flags]

Commands:
  list       Browse active auctions (--search, --category, --sort)
  bid        Place a bid (--auction, --amount)
  create     Create an auction (--title, --description, --price, --days, ...)
  end        End an auction early (--auction)
  login      Authenticate (--username, --password)
  register   Create an account (--username, --email, --password, ...)
  logout     Clear the persisted session
  currency   Show or set the display currency (USD or INR)

Environment:
  AUCTION_API_URL               Backend base URL (default http://localhost:8081/api)
  AUCTION_STORE_PATH            SQLite state file (default auction-client.db)
  AUCTION_HTTP_TIMEOUT_SECONDS  Request timeout (default 10)
  AUCTION_LOG_LEVEL             debug, info, warn or error (default info)
`)
}
