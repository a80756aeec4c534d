package fs

import (
	"strconv"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path           string     `json:"path"`
	SystemDir      string     `json:"system_dir"`
	Format         string     `json:"format"`
	CacheSize      int        `json:"cache_size"`
	SkippedRecords int        `json:"skipped_records"`
	Versioning     bool       `json:"versioning"`
	ReadOnly       bool       `json:"read_only"`
	WatcherActive  bool       `json:"watcher_active"`
	LastReconcile  *time.Time `json:"last_reconcile,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:           r.Path,
		SystemDir:      r.config.SystemDir,
		Format:         r.serializer.Ext()[1:],
		CacheSize:      r.cache.Len(),
		SkippedRecords: r.skipped,
		Versioning:     r.config.Versioning,
		ReadOnly:       r.config.ReadOnly,
		WatcherActive:  r.watcherActive,
		LastReconcile:  r.lastReconcile,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

type stateNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []stateNode
}

// Diagram renders the journal topology as a Mermaid diagram.
func (s RepositoryState) Diagram() string {
	config := introspection.DefaultDiagramConfig()
	config.SecondaryID = "journal"
	config.SecondaryLabel = "Journal Topology"
	return introspection.TreeDiagram(s.tree(), config)
}

// tree maps the state onto the status classes of introspection.DefaultStyles.
func (s RepositoryState) tree() stateNode {
	watcher := "suspended"
	if s.WatcherActive {
		watcher = "running"
	}
	history := "stopped"
	if s.Versioning {
		history = "running"
	}
	mode := "read-write"
	if s.ReadOnly {
		mode = "read-only"
	}

	return stateNode{
		Name:   "Journal",
		Status: "running",
		Metadata: map[string]string{
			"type": "container",
			"path": s.Path,
		},
		Children: []stateNode{{
			Name:   "Repository",
			Status: "running",
			Metadata: map[string]string{
				"type":    "process",
				"format":  s.Format,
				"mode":    mode,
				"skipped": strconv.Itoa(s.SkippedRecords),
			},
			Children: []stateNode{
				{Name: "Watcher", Status: watcher, Metadata: map[string]string{"type": "goroutine"}},
				{Name: "Index", Status: "running", Metadata: map[string]string{
					"type":    "container",
					"entries": strconv.Itoa(s.CacheSize),
				}},
				{Name: "Git", Status: history, Metadata: map[string]string{"type": "process"}},
			},
		}},
	}
}

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *Repository) recordReconcile() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastReconcile = &now
}
