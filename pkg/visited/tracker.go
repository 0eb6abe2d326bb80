package visited

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// StorageKey is the fixed key the visited set is stored under.
const StorageKey = "graph-visited"

// Tracker reads and writes the visited set.
type Tracker struct {
	store  Store
	key    string
	logger *zap.Logger
}

// NewTracker wraps store. A nil logger is replaced by a no-op logger.
func NewTracker(store Store, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, key: StorageKey, logger: logger}
}

// Visited loads the persisted set. A corrupt value is treated as empty.
func (t *Tracker) Visited(ctx context.Context) (map[string]bool, error) {
	raw, ok, err := t.store.Get(ctx, t.key)
	if err != nil {
		return nil, fmt.Errorf("load visited: %w", err)
	}
	set := make(map[string]bool)
	if !ok {
		return set, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		t.logger.Warn("discarding unreadable visited set", zap.Error(err))
		return set, nil
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// IsVisited reports whether id is in the persisted set.
func (t *Tracker) IsVisited(ctx context.Context, id string) (bool, error) {
	set, err := t.Visited(ctx)
	if err != nil {
		return false, err
	}
	return set[id], nil
}

// MarkVisited adds id to the persisted set. The whole set is rewritten, so
// marking the same id twice stores it once.
func (t *Tracker) MarkVisited(ctx context.Context, id string) error {
	set, err := t.Visited(ctx)
	if err != nil {
		return err
	}
	set[id] = true

	ids := make([]string, 0, len(set))
	for v := range set {
		ids = append(ids, v)
	}
	sort.Strings(ids)

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode visited: %w", err)
	}
	if err := t.store.Set(ctx, t.key, raw); err != nil {
		return fmt.Errorf("save visited: %w", err)
	}
	t.logger.Debug("marked visited", zap.String("id", id), zap.Int("total", len(ids)))
	return nil
}
