package coverage

import (
	"sort"
	"strconv"
)

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type FnMeta struct {
	Name string   `json:"name"`
	Decl Location `json:"decl"`
	Loc  Location `json:"loc"`
	Line int      `json:"line,omitempty"`
}

type BranchMeta struct {
	Type      string     `json:"type"`
	Loc       Location   `json:"loc"`
	Locations []Location `json:"locations,omitempty"`
	Line      int        `json:"line,omitempty"`
}

// FileCoverage mirrors the per-file record the remote instrumentation
// produces: location tables plus hit counters keyed by the same ids.
type FileCoverage struct {
	Path         string                `json:"path"`
	StatementMap map[string]Location   `json:"statementMap"`
	FnMap        map[string]FnMeta     `json:"fnMap"`
	BranchMap    map[string]BranchMeta `json:"branchMap"`
	S            map[string]int        `json:"s"`
	F            map[string]int        `json:"f"`
	B            map[string][]int      `json:"b"`
}

// Snapshot is one execution's raw counters, keyed by source file identity.
type Snapshot map[string]FileCoverage

// Map is the accumulated coverage state for one environment run. Not safe
// for concurrent use; the environment serializes merges.
type Map struct {
	files map[string]*FileCoverage
}

func NewMap() *Map {
	return &Map{files: make(map[string]*FileCoverage)}
}

func (m *Map) Len() int {
	return len(m.files)
}

func (m *Map) Files() []string {
	paths := make([]string, 0, len(m.files))
	for path := range m.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (m *Map) File(path string) (FileCoverage, bool) {
	fc, ok := m.files[path]
	if !ok {
		return FileCoverage{}, false
	}
	return *fc, true
}

// counterKeys returns a counter map's keys in instrumentation order. Keys
// are numeric strings; anything else sorts lexically after the numbers.
func counterKeys[V any](counters map[string]V) []string {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if aerr == nil {
			return true
		}
		if berr == nil {
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}
