// Package manager opens and caches per-instance resolution contexts for the
// dev inspection server: one game instance directory on disk maps to one
// node store, resolver, index, and façade, built lazily on first request.
package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
	"github.com/timeglass/tfoods/pkg/game"
	"github.com/timeglass/tfoods/pkg/registry"
	"github.com/timeglass/tfoods/pkg/resolver"
	"github.com/timeglass/tfoods/pkg/service"
)

// InstanceMetadata is the instance information exposed by the API.
type InstanceMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	// MaxOpenInstances bounds the number of resolution contexts held in
	// memory at once. An evicted context is rebuilt on next use.
	MaxOpenInstances = 8
	// InstanceListTTL caches the directory scan behind ListInstances.
	InstanceListTTL = 1 * time.Minute
)

// Expected layout inside an instance directory. The first existing
// candidate wins, matching the node store's search-order contract.
var (
	nodeRootCandidates = []string{
		filepath.Join("registry", "nodes"),
		"nodes",
	}
	manifestCandidates = []string{
		filepath.Join("registry", "generated", "node_ids.json"),
		filepath.Join("generated", "node_ids.json"),
	}
	itemTableFile = "items.json"
)

// InstanceManager manages resolution contexts for multiple instances.
type InstanceManager struct {
	baseDir   string
	log       *zap.SugaredLogger
	instances *lru.Cache[string, *service.BuffService]

	mu            sync.Mutex
	cachedList    []InstanceMetadata
	lastListBuild time.Time
}

// NewInstanceManager creates a manager rooted at baseDir.
func NewInstanceManager(baseDir string, log *zap.SugaredLogger) *InstanceManager {
	if log == nil {
		log = logging.Nop()
	}
	cache, _ := lru.New[string, *service.BuffService](MaxOpenInstances)
	return &InstanceManager{
		baseDir:   baseDir,
		log:       log,
		instances: cache,
	}
}

// GetService returns the façade for an instance, building it on first use.
func (m *InstanceManager) GetService(instanceID string) (*service.BuffService, error) {
	if s, ok := m.instances.Get(instanceID); ok {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.instances.Get(instanceID); ok {
		return s, nil
	}

	instanceDir := filepath.Join(m.baseDir, instanceID)
	if _, err := os.Stat(instanceDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("instance not found: %s", instanceID)
	}

	svc, err := m.open(instanceDir)
	if err != nil {
		return nil, fmt.Errorf("open instance %s: %w", instanceID, err)
	}

	m.instances.Add(instanceID, svc)
	return svc, nil
}

// open wires up one resolution context from an instance directory.
func (m *InstanceManager) open(instanceDir string) (*service.BuffService, error) {
	roots := make([]string, 0, len(nodeRootCandidates))
	for _, c := range nodeRootCandidates {
		roots = append(roots, filepath.Join(instanceDir, c))
	}
	manifests := make([]string, 0, len(manifestCandidates))
	for _, c := range manifestCandidates {
		manifests = append(manifests, filepath.Join(instanceDir, c))
	}

	items, err := game.LoadTable(filepath.Join(instanceDir, itemTableFile))
	if err != nil {
		// No dump means no tag matching and no fallback enumeration,
		// but direct node resolution still works.
		m.log.Warnw("no item table for instance", "dir", instanceDir, "err", err)
		items = game.NewTable(nil, nil, nil)
	}

	store := registry.NewStore(roots, m.log)
	res := resolver.New(store, m.log)
	idx := resolver.BuildIndex(store, items, manifests, m.log)
	return service.NewBuffService(res, idx, m.log), nil
}

// ListInstances scans the base directory for instances, with metadata.json
// overrides when present. The scan result is cached for InstanceListTTL.
func (m *InstanceManager) ListInstances() ([]InstanceMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastListBuild) < InstanceListTTL && m.cachedList != nil {
		list := make([]InstanceMetadata, len(m.cachedList))
		copy(list, m.cachedList)
		return list, nil
	}

	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return nil, err
	}

	var instances []InstanceMetadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		meta := InstanceMetadata{ID: id, Name: id}

		metaPath := filepath.Join(m.baseDir, id, "metadata.json")
		var fileMeta InstanceMetadata
		if err := registry.ReadJSON(metaPath, &fileMeta); err == nil {
			if fileMeta.Name != "" {
				meta.Name = fileMeta.Name
			}
			meta.Description = fileMeta.Description
		}
		instances = append(instances, meta)
	}

	m.cachedList = instances
	m.lastListBuild = time.Now()
	return instances, nil
}

// CloseAll drops every open context.
func (m *InstanceManager) CloseAll() {
	m.instances.Purge()
}
