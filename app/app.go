// Package app coordinates the client's stateful flows: the listing snapshot
// with ordered re-fetches, the per-card bid submission state machine, the
// session lifecycle, auction creation, and payment summaries. It owns no
// presentation; callers render the views it produces.
package app

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/currency"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/marketapi"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/store"
)

// App wires the remote client, the currency service and the state store.
// One App serves the whole process.
type App struct {
	api   *marketapi.Client
	fx    *currency.Service
	store *store.Store
	log   *slog.Logger

	mu         sync.Mutex
	snapshot   []core.Auction
	nextSeq    uint64
	appliedSeq uint64
}

// New builds the coordinator. The persisted last-good snapshot, if any,
// seeds the in-memory listing so a restarted client renders immediately.
// store may be nil in tests; persistence is then skipped.
func New(api *marketapi.Client, fx *currency.Service, st *store.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	a := &App{
		api:   api,
		fx:    fx,
		store: st,
		log:   logger,
	}
	if st != nil {
		if snapshot, ok := st.LoadSnapshot(); ok {
			a.snapshot = snapshot
			a.log.Debug("restored listing snapshot", "count", len(snapshot))
		}
	}
	return a
}

// Currency exposes the currency service for presentation code.
func (a *App) Currency() *currency.Service { return a.fx }

func (a *App) now() time.Time { return time.Now() }
