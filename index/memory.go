package index

import (
	"context"
	"sync"

	"tidal-client/types"
)

// MemoryIndex is an in-process index used by the dev mode of the CLI and by
// workflow tests.
type MemoryIndex struct {
	lk      sync.RWMutex
	records map[string]*types.AssetRecord
	owners  map[string]string
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		records: make(map[string]*types.AssetRecord),
		owners:  make(map[string]string),
	}
}

func (m *MemoryIndex) Publish(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error {
	m.lk.Lock()
	defer m.lk.Unlock()

	clone := *record
	m.records[didStr] = &clone
	m.owners[didStr] = owner
	return nil
}

func (m *MemoryIndex) Update(ctx context.Context, didStr string, record *types.AssetRecord, owner string) error {
	m.lk.Lock()
	defer m.lk.Unlock()

	if _, ok := m.records[didStr]; !ok {
		return types.Wrapf(types.ErrResolveFailed, "no record for %s", didStr)
	}
	if m.owners[didStr] != owner {
		return types.Wrapf(types.ErrPublishFailed, "%s does not own %s", owner, didStr)
	}
	clone := *record
	m.records[didStr] = &clone
	return nil
}

func (m *MemoryIndex) Resolve(ctx context.Context, didStr string) (*types.AssetRecord, error) {
	m.lk.RLock()
	defer m.lk.RUnlock()

	record, ok := m.records[didStr]
	if !ok {
		return nil, types.Wrapf(types.ErrResolveFailed, "no record for %s", didStr)
	}
	clone := *record
	return &clone, nil
}
