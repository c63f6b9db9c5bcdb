package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
)

// ErrNodeAbsent is returned by Store.GetNode for every condition that
// degrades to "no node": missing file, parse failure, shape mismatch, or an
// explicitly disabled node. The resolver treats all of them identically.
var ErrNodeAbsent = errors.New("node absent")

// Store loads node definitions lazily from a set of candidate root
// directories. Search order matters: the first root that ever yields a node
// is remembered as the active root and tried first from then on. Every
// outcome, including absence, is cached so each id touches the filesystem
// at most once per Store lifetime.
type Store struct {
	roots []string
	log   *zap.SugaredLogger

	mu     sync.Mutex
	active int // index into roots, -1 until a lookup succeeds
	nodes  map[string]*Node
}

// NewStore creates a Store over the given candidate roots, in search order.
func NewStore(roots []string, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		roots:  roots,
		log:    log,
		active: -1,
		nodes:  make(map[string]*Node),
	}
}

// ActiveRoot returns the root directory lookups currently resolve against,
// or "" when no lookup has succeeded yet.
func (s *Store) ActiveRoot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active < 0 {
		return ""
	}
	return s.roots[s.active]
}

// GetNode returns the node for id, or an error wrapping ErrNodeAbsent.
// Disabled nodes resolve to absent.
func (s *Store) GetNode(id string) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, seen := s.nodes[id]; seen {
		if n == nil {
			return nil, fmt.Errorf("%w: %s", ErrNodeAbsent, id)
		}
		return n, nil
	}

	n := s.load(id)
	s.nodes[id] = n
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeAbsent, id)
	}
	return n, nil
}

// load tries each candidate root in order. Any read or parse failure falls
// through to the next candidate; an explicitly disabled node is terminal.
// Caller holds s.mu.
func (s *Store) load(id string) *Node {
	file := NodeFileName(id)
	for _, i := range s.searchOrder() {
		path := filepath.Join(s.roots[i], file)

		var raw rawNode
		if err := ReadJSON(path, &raw); err != nil {
			s.log.Debugw("node candidate miss", "id", id, "path", path, "err", err)
			continue
		}

		if s.active < 0 {
			s.active = i
			s.log.Infow("registry root selected", "root", s.roots[i])
		}

		n := raw.toNode()
		if n.ID == "" {
			n.ID = id
		}
		if !n.Enabled {
			s.log.Debugw("node disabled", "id", id)
			return nil
		}
		return n
	}
	return nil
}

func (s *Store) searchOrder() []int {
	order := make([]int, 0, len(s.roots))
	if s.active >= 0 {
		order = append(order, s.active)
	}
	for i := range s.roots {
		if i != s.active {
			order = append(order, i)
		}
	}
	return order
}
