package mock

import (
	"context"

	"github.com/fwojciec/workflow"
)

// Interface compliance checks.
var (
	_ workflow.KV           = (*KV)(nil)
	_ workflow.ItemStore    = (*ItemStore)(nil)
	_ workflow.HistoryStore = (*HistoryStore)(nil)
	_ workflow.AgentSource  = (*AgentSource)(nil)
)

// KV is a test double for workflow.KV.
type KV struct {
	GetFn    func(ctx context.Context, key string) ([]byte, error)
	PutFn    func(ctx context.Context, key string, value []byte) error
	DeleteFn func(ctx context.Context, key string) error
}

// Get delegates to GetFn.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	return k.GetFn(ctx, key)
}

// Put delegates to PutFn.
func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	return k.PutFn(ctx, key, value)
}

// Delete delegates to DeleteFn.
func (k *KV) Delete(ctx context.Context, key string) error {
	return k.DeleteFn(ctx, key)
}

// ItemStore is a test double for workflow.ItemStore.
type ItemStore struct {
	LoadItemsFn func(ctx context.Context) ([]workflow.Item, error)
	SaveItemsFn func(ctx context.Context, items []workflow.Item) error
}

// LoadItems delegates to LoadItemsFn.
func (s *ItemStore) LoadItems(ctx context.Context) ([]workflow.Item, error) {
	return s.LoadItemsFn(ctx)
}

// SaveItems delegates to SaveItemsFn.
func (s *ItemStore) SaveItems(ctx context.Context, items []workflow.Item) error {
	return s.SaveItemsFn(ctx, items)
}

// HistoryStore is a test double for workflow.HistoryStore.
type HistoryStore struct {
	LoadHistoryFn  func(ctx context.Context, key string) ([]workflow.Message, error)
	SaveHistoryFn  func(ctx context.Context, key string, msgs []workflow.Message) error
	ClearHistoryFn func(ctx context.Context, key string) error
}

// LoadHistory delegates to LoadHistoryFn.
func (s *HistoryStore) LoadHistory(ctx context.Context, key string) ([]workflow.Message, error) {
	return s.LoadHistoryFn(ctx, key)
}

// SaveHistory delegates to SaveHistoryFn.
func (s *HistoryStore) SaveHistory(ctx context.Context, key string, msgs []workflow.Message) error {
	return s.SaveHistoryFn(ctx, key, msgs)
}

// ClearHistory delegates to ClearHistoryFn.
func (s *HistoryStore) ClearHistory(ctx context.Context, key string) error {
	return s.ClearHistoryFn(ctx, key)
}

// AgentSource is a test double for workflow.AgentSource.
type AgentSource struct {
	AgentsFn func(ctx context.Context) ([]workflow.Agent, error)
}

// Agents delegates to AgentsFn.
func (a *AgentSource) Agents(ctx context.Context) ([]workflow.Agent, error) {
	return a.AgentsFn(ctx)
}
