package app

import (
	"net/http"
	"path/filepath"

	"sealchat/internal/domain"
	"sealchat/internal/relay"
	"sealchat/internal/scheduler"
	identitysvc "sealchat/internal/services/identity"
	mediasvc "sealchat/internal/services/media"
	messagesvc "sealchat/internal/services/message"
	syncsvc "sealchat/internal/services/sync"
	"sealchat/internal/store"
)

// App bundles all stores, services, and clients for the CLI.
type App struct {
	Store      *store.Store
	Identities domain.IdentityService
	Messages   domain.MessageService
	Sync       domain.SyncService
	Media      domain.MediaService
	Relay      domain.RelayClient
	Poller     *scheduler.Poller
}

// New constructs the dependency graph from cfg. Relay-dependent services
// are wired only when a relay URL is configured; key and chat management
// work offline.
func New(cfg Config) (*App, error) {
	st, err := store.Open(filepath.Join(cfg.Home, store.DefaultDBFileName))
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	a := &App{
		Store:      st,
		Identities: identitysvc.New(st),
		Media:      mediasvc.New(st),
	}
	if cfg.RelayURL == "" {
		return a, nil
	}

	rc := relay.New(cfg.RelayURL, httpClient)
	msgs := messagesvc.New(rc, st)
	rec := syncsvc.New(st, st, st, st, st, msgs)

	var opts []scheduler.Option
	if cfg.ForegroundInterval > 0 {
		opts = append(opts, scheduler.WithForegroundInterval(cfg.ForegroundInterval))
	}
	if cfg.BackgroundInterval > 0 {
		opts = append(opts, scheduler.WithBackgroundInterval(cfg.BackgroundInterval))
	}

	a.Relay = rc
	a.Messages = msgs
	a.Sync = rec
	a.Poller = scheduler.NewPoller(rec, opts...)
	return a, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.Poller != nil {
		a.Poller.Close()
	}
	return a.Store.Close()
}
