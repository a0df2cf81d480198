package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cardbinder/cardbinder/internal/cache"
	"github.com/cardbinder/cardbinder/internal/config"
	"github.com/cardbinder/cardbinder/internal/tui"
	"github.com/cardbinder/cardbinder/pkg/binder"
	"github.com/cardbinder/cardbinder/pkg/client"
	"github.com/cardbinder/cardbinder/pkg/domain"
	"github.com/cardbinder/cardbinder/pkg/seed"
	"github.com/cardbinder/cardbinder/pkg/syncer"
)

// errNotLoggedIn signals the caller to print the greeting instead of an error.
var errNotLoggedIn = errors.New("not logged in")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cardbinder",
		Short: "Track your trading card collection from the terminal",
		Long: `cardbinder opens an interactive binder over your card collection:
check cards off, watch set completion, and keep purchase prices and
current values next to the cards they belong to. Changes sync to your
account automatically and survive the server being unreachable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runTUI(cmd.Context())
			if errors.Is(err, errNotLoggedIn) {
				printBinderGreeting()
				return nil
			}
			return err
		},
	}

	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("cardbinder " + version)
		},
	})
	return root
}

// session is everything the commands need after authentication.
type session struct {
	cfg   config.Config
	api   *client.Client
	user  *domain.User
	store *cache.Cache // nil when the cache dir is unavailable
}

// openSession loads config, resolves the token and authenticates. When the
// API is unreachable it falls back to the cached profile so the binder can
// open offline.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	token := readToken()
	if token == "" {
		return nil, errNotLoggedIn
	}

	s := &session{cfg: cfg, api: client.New(cfg.APIURL, token)}
	if dir, err := cache.DefaultDir(); err == nil {
		s.store, _ = cache.Open(dir) //nolint:errcheck // cache is best-effort
	}

	user, err := s.api.GetMe(ctx)
	switch {
	case err == nil:
		s.user = user
		if s.store != nil {
			s.store.SaveProfile(*user) //nolint:errcheck
		}
	case client.IsAuth(err):
		return nil, errNotLoggedIn
	default:
		// Network or server trouble. Use the last known profile if any.
		if s.store == nil {
			return nil, err
		}
		cached, cacheErr := s.store.LoadProfile()
		if cacheErr != nil {
			return nil, err
		}
		s.user = &cached
	}
	return s, nil
}

// loadBinder hydrates a binder from the remote document, seeding the
// bundled checklist for first-time users and falling back to the local
// cache when the fetch fails. Returns whether the binder was freshly
// seeded, meaning no remote document exists yet.
func (s *session) loadBinder(ctx context.Context) (*binder.Binder, domain.Document, bool, error) {
	b := binder.New()

	doc, err := s.api.GetBinder(ctx)
	switch {
	case err == nil && !doc.Empty():
		b.Load(*doc)
		if s.store != nil {
			s.store.SaveDocument(s.user.ID, *doc) //nolint:errcheck
		}
		return b, *doc, false, nil

	case err == nil || client.IsStatus(err, 404):
		cards, seedErr := seed.Cards()
		if seedErr != nil {
			return nil, domain.Document{}, false, seedErr
		}
		b.Seed(cards)
		return b, domain.Document{}, true, nil

	default:
		if s.store == nil {
			return nil, domain.Document{}, false, err
		}
		cached, cacheErr := s.store.LoadDocument(s.user.ID)
		if cacheErr != nil {
			return nil, domain.Document{}, false, err
		}
		b.Load(cached)
		return b, cached, false, nil
	}
}

// cachingWriter sends documents to the API and mirrors them into the local
// cache. The cache write happens even when the remote write fails so local
// changes survive a crash while offline.
type cachingWriter struct {
	remote *client.Client
	store  *cache.Cache
	userID string
}

func (w *cachingWriter) PutBinder(ctx context.Context, doc domain.Document) error {
	if w.store != nil {
		w.store.SaveDocument(w.userID, doc) //nolint:errcheck
	}
	return w.remote.PutBinder(ctx, doc)
}

// writeSeed creates the remote document for a freshly seeded binder so a
// first run is recoverable from another machine. Best-effort: an offline
// first run stays local until the next write.
func (s *session) writeSeed(ctx context.Context, bind *binder.Binder) {
	writer := &cachingWriter{remote: s.api, store: s.store, userID: s.user.ID}
	sy := syncer.New(writer, bind.Snapshot)
	defer sy.Close()
	flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	sy.Flush(flushCtx) //nolint:errcheck
}

func runTUI(ctx context.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	bind, doc, seeded, err := s.loadBinder(ctx)
	if err != nil {
		return err
	}

	writer := &cachingWriter{remote: s.api, store: s.store, userID: s.user.ID}
	sy := syncer.New(writer, bind.Snapshot, syncer.WithDebounce(s.cfg.Debounce()))
	defer sy.Close()

	if seeded {
		// Create the remote document right away so a fresh install is
		// recoverable from another machine.
		flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		sy.Flush(flushCtx) //nolint:errcheck // offline first runs stay local until the next write
		cancel()
	} else {
		sy.MarkSynced(doc)
	}

	bind.OnChange(sy.Notify)

	app := tui.NewApp(bind, sy, s.user, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	// Push any pending edit before the process goes away.
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sy.Flush(flushCtx) //nolint:errcheck
	return nil
}
