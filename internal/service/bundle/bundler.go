package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/domain"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/metrics"
)

// Bundler collapses related notifications into digest deliveries. A
// bundle is created atomically with its first member and released when
// it reaches the size threshold or its ready time, whichever comes
// first. Released bundles are immutable and move to an archive where
// their members stay retrievable by key.
type Bundler struct {
	mu    sync.Mutex
	slots map[string]*userSlot

	store         domain.BundleStore
	cfg           *config.BundleConfig
	triageMetrics *metrics.TriageMetrics
}

type userSlot struct {
	mu       sync.Mutex
	open     map[string]*domain.Bundle
	hydrated bool
}

func NewBundler(store domain.BundleStore, cfg *config.BundleConfig, triageMetrics *metrics.TriageMetrics) *Bundler {
	return &Bundler{
		slots:         make(map[string]*userSlot),
		store:         store,
		cfg:           cfg,
		triageMetrics: triageMetrics,
	}
}

func (b *Bundler) slot(userID string) *userSlot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slots[userID]
	if !ok {
		s = &userSlot{open: make(map[string]*domain.Bundle)}
		b.slots[userID] = s
	}
	return s
}

func (b *Bundler) withSlot(ctx context.Context, userID string, fn func(s *userSlot)) error {
	s := b.slot(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		bundles, err := b.store.GetBundles(ctx, userID)
		if err != nil {
			return fmt.Errorf("hydrate bundles for %s: %w", userID, err)
		}
		for i := range bundles {
			bundle := bundles[i]
			s.open[bundle.Key] = &bundle
		}
		s.hydrated = true
	}

	fn(s)

	if err := b.persist(ctx, userID, s); err != nil {
		slog.WarnContext(ctx, "failed to persist bundle snapshot",
			slog.String("event", "bundle.persist.fail"),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (b *Bundler) persist(ctx context.Context, userID string, s *userSlot) error {
	bundles := make([]domain.Bundle, 0, len(s.open))
	for _, bundle := range s.open {
		bundles = append(bundles, *bundle)
	}
	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].CreatedAt.Before(bundles[j].CreatedAt)
	})
	return b.store.PutBundles(ctx, userID, bundles)
}

// Add appends the notification to its bundle, creating the bundle with
// this first member when the key is new. It returns the bundle key.
func (b *Bundler) Add(ctx context.Context, n domain.Notification, urgency domain.Urgency, strategy domain.BundleStrategy, now time.Time) (string, error) {
	group := groupFor(strategy, n)
	key := domain.BundleKey(n.UserID, strategy, group, domain.WindowKey(now, b.cfg.Window))

	err := b.withSlot(ctx, n.UserID, func(s *userSlot) {
		bundle, ok := s.open[key]
		if !ok {
			bundle = domain.NewBundle(key, n.UserID, strategy, group, now, now.Add(b.cfg.MaxAge))
			s.open[key] = bundle
		}
		bundle.AddMember(domain.BundleMember{Notification: n, Urgency: urgency})
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// ReadyBundles removes and returns every bundle satisfying the release
// invariant at now, archiving each for later audit.
func (b *Bundler) ReadyBundles(ctx context.Context, userID string, now time.Time) ([]domain.Bundle, error) {
	var released []domain.Bundle
	err := b.withSlot(ctx, userID, func(s *userSlot) {
		for key, bundle := range s.open {
			if !bundle.Ready(now, b.cfg.SizeThreshold) {
				continue
			}
			released = append(released, *bundle)
			delete(s.open, key)
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(released, func(i, j int) bool {
		return released[i].CreatedAt.Before(released[j].CreatedAt)
	})

	for i := range released {
		bundle := released[i]
		if archiveErr := b.store.PutReleased(ctx, bundle); archiveErr != nil {
			slog.WarnContext(ctx, "failed to archive released bundle",
				slog.String("event", "bundle.archive.fail"),
				slog.String("bundle_key", bundle.Key),
				slog.String("error", archiveErr.Error()),
			)
		}
		if b.triageMetrics != nil {
			trigger := "ready_at"
			if bundle.Size() >= b.cfg.SizeThreshold {
				trigger = "size_threshold"
			}
			b.triageMetrics.RecordBundleReleased(ctx, bundle.Strategy.String(), trigger, bundle.Size())
		}
	}
	return released, nil
}

// Pending returns the user's open bundles in creation order without
// releasing anything.
func (b *Bundler) Pending(ctx context.Context, userID string) ([]domain.Bundle, error) {
	var bundles []domain.Bundle
	err := b.withSlot(ctx, userID, func(s *userSlot) {
		for _, bundle := range s.open {
			bundles = append(bundles, *bundle)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].CreatedAt.Before(bundles[j].CreatedAt)
	})
	return bundles, nil
}

// Peek looks a bundle up by key without mutating state. Released
// bundles are found in the archive.
func (b *Bundler) Peek(ctx context.Context, userID, key string) (*domain.Bundle, error) {
	var found *domain.Bundle
	err := b.withSlot(ctx, userID, func(s *userSlot) {
		if bundle, ok := s.open[key]; ok {
			copied := *bundle
			found = &copied
		}
	})
	if err != nil {
		return nil, err
	}
	if found != nil {
		return found, nil
	}
	return b.store.GetReleased(ctx, userID, key)
}

// Users lists every user with open bundle state.
func (b *Bundler) Users(ctx context.Context) ([]string, error) {
	stored, err := b.store.ListBundleUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bundle users: %w", err)
	}

	seen := make(map[string]bool, len(stored))
	for _, userID := range stored {
		seen[userID] = true
	}

	b.mu.Lock()
	for userID, s := range b.slots {
		if !seen[userID] && len(s.open) > 0 {
			seen[userID] = true
		}
	}
	b.mu.Unlock()

	users := make([]string, 0, len(seen))
	for userID := range seen {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

// groupFor computes the grouping value per strategy. Smart grouping
// prefers the category and falls back to the sender, so chat apps
// bundle by conversation source and everything else by origin.
func groupFor(strategy domain.BundleStrategy, n domain.Notification) string {
	switch strategy {
	case domain.BundleBySender:
		return n.Sender
	case domain.BundleByApp:
		return n.AppID
	case domain.BundleByCategory:
		if n.Category != "" {
			return n.Category
		}
		return "general"
	case domain.BundleSmart:
		if n.Category != "" {
			return n.Category
		}
		return n.Sender
	}
	return n.Sender
}
