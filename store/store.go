// Package store keeps workflow items and chat histories in a [workflow.KV]
// using the json envelope format.
//
// Read failures never surface to the UI: they are logged and treated as
// "no prior state" (defaults for items, empty for histories).
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/workflow"
	wfjson "github.com/fwojciec/workflow/json"
)

// Interface compliance checks.
var (
	_ workflow.ItemStore    = (*Items)(nil)
	_ workflow.HistoryStore = (*Histories)(nil)
)

const (
	itemsKey      = "items"
	historyPrefix = "history/"
)

// HistoryKey returns the KV key a conversation history is stored under.
func HistoryKey(key string) string { return historyPrefix + key }

// Items stores the ordered workflow item list and applies edits to it.
// Edits are serialized so concurrent requests do not lose updates.
type Items struct {
	kv     workflow.KV
	logger *slog.Logger
	mu     sync.Mutex
}

// NewItems returns an item store. A nil logger uses slog.Default().
func NewItems(kv workflow.KV, logger *slog.Logger) *Items {
	if logger == nil {
		logger = slog.Default()
	}
	return &Items{kv: kv, logger: logger}
}

// LoadItems returns the stored items. An empty store is seeded with
// [workflow.DefaultItems]. A failing or corrupt store yields the defaults
// without writing anything. Edits through [Items.Update] are refused while
// the store fails to read, but replace corrupt data with the edited
// defaults.
func (s *Items) LoadItems(ctx context.Context) ([]workflow.Item, error) {
	items, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("load workflow items", "error", err)
		return workflow.DefaultItems(), nil
	}
	return items, nil
}

// load is LoadItems without the fallback for read failures.
func (s *Items) load(ctx context.Context) ([]workflow.Item, error) {
	data, err := s.kv.Get(ctx, itemsKey)
	if errors.Is(err, workflow.ErrNotFound) {
		items := workflow.DefaultItems()
		if err := s.SaveItems(ctx, items); err != nil {
			s.logger.Warn("seed workflow items", "error", err)
		}
		return items, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := wfjson.UnmarshalItems(data)
	if err != nil {
		s.logger.Warn("decode workflow items", "error", err)
		return workflow.DefaultItems(), nil
	}
	if len(items) == 0 {
		return workflow.DefaultItems(), nil
	}
	return items, nil
}

// SaveItems replaces the stored item list.
func (s *Items) SaveItems(ctx context.Context, items []workflow.Item) error {
	data, err := wfjson.MarshalItems(items)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.kv.Put(ctx, itemsKey, data); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Update loads the items, applies fn to the item with the given id, and
// saves the result. It returns the updated item. A store that fails to read
// is left untouched and the error is returned.
func (s *Items) Update(ctx context.Context, id int, fn func(*workflow.Item) error) (workflow.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return workflow.Item{}, fmt.Errorf("store: load items: %w", err)
	}
	i := workflow.FindItem(items, id)
	if i < 0 {
		return workflow.Item{}, fmt.Errorf("store: item %d: %w", id, workflow.ErrNotFound)
	}
	if err := fn(&items[i]); err != nil {
		return workflow.Item{}, err
	}
	if err := items[i].Validate(); err != nil {
		return workflow.Item{}, fmt.Errorf("store: %w", err)
	}
	if err := s.SaveItems(ctx, items); err != nil {
		return workflow.Item{}, err
	}
	return items[i], nil
}

// Get returns the item with the given id.
func (s *Items) Get(ctx context.Context, id int) (workflow.Item, error) {
	items, err := s.LoadItems(ctx)
	if err != nil {
		return workflow.Item{}, err
	}
	i := workflow.FindItem(items, id)
	if i < 0 {
		return workflow.Item{}, fmt.Errorf("store: item %d: %w", id, workflow.ErrNotFound)
	}
	return items[i], nil
}

// SetStatus moves an item to status.
func (s *Items) SetStatus(ctx context.Context, id int, status workflow.Status) (workflow.Item, error) {
	return s.Update(ctx, id, func(it *workflow.Item) error {
		it.Status = status
		return nil
	})
}

// SetDescription replaces an item's HTML description.
func (s *Items) SetDescription(ctx context.Context, id int, html string) (workflow.Item, error) {
	return s.Update(ctx, id, func(it *workflow.Item) error {
		it.Description = html
		return nil
	})
}

// ToggleBookmark flips an item's bookmark flag.
func (s *Items) ToggleBookmark(ctx context.Context, id int) (workflow.Item, error) {
	return s.Update(ctx, id, func(it *workflow.Item) error {
		it.Bookmarked = !it.Bookmarked
		return nil
	})
}

// Refine replaces an item's title and description.
func (s *Items) Refine(ctx context.Context, id int, title, description string) (workflow.Item, error) {
	return s.Update(ctx, id, func(it *workflow.Item) error {
		it.Title = title
		it.Description = description
		return nil
	})
}

// SetImage records a generated portrait on an item.
func (s *Items) SetImage(ctx context.Context, id int, url string, g workflow.Gender) (workflow.Item, error) {
	return s.Update(ctx, id, func(it *workflow.Item) error {
		it.ImageURL = url
		it.ImageGender = g
		return nil
	})
}

// Histories stores chat histories keyed by conversation key.
type Histories struct {
	kv     workflow.KV
	logger *slog.Logger
	now    func() time.Time
}

// NewHistories returns a history store. A nil logger uses slog.Default().
func NewHistories(kv workflow.KV, logger *slog.Logger) *Histories {
	if logger == nil {
		logger = slog.Default()
	}
	return &Histories{kv: kv, logger: logger, now: time.Now}
}

// LoadHistory returns the messages stored for key. Missing, failing, or
// corrupt histories load as empty.
func (s *Histories) LoadHistory(ctx context.Context, key string) ([]workflow.Message, error) {
	h, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return h.Messages, nil
}

// Load returns the full history record for key.
func (s *Histories) Load(ctx context.Context, key string) (workflow.History, error) {
	data, err := s.kv.Get(ctx, HistoryKey(key))
	if errors.Is(err, workflow.ErrNotFound) {
		return workflow.History{Key: key}, nil
	}
	if err != nil {
		s.logger.Warn("load chat history", "key", key, "error", err)
		return workflow.History{Key: key}, nil
	}
	h, err := wfjson.UnmarshalHistory(data)
	if err != nil {
		s.logger.Warn("decode chat history", "key", key, "error", err)
		return workflow.History{Key: key}, nil
	}
	h.Key = key
	return h, nil
}

// SaveHistory replaces the history stored for key.
func (s *Histories) SaveHistory(ctx context.Context, key string, msgs []workflow.Message) error {
	return s.Save(ctx, workflow.History{Key: key, UpdatedAt: s.now().UTC(), Messages: msgs})
}

// Save stores a full history record.
func (s *Histories) Save(ctx context.Context, h workflow.History) error {
	data, err := wfjson.MarshalHistory(h)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.kv.Put(ctx, HistoryKey(h.Key), data); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// ClearHistory deletes the history stored for key.
func (s *Histories) ClearHistory(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, HistoryKey(key)); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
