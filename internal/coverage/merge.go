package coverage

import "fmt"

type MalformedCoverageError struct {
	File   string
	Reason string
}

func (e *MalformedCoverageError) Error() string {
	return fmt.Sprintf("malformed coverage for %s: %s", e.File, e.Reason)
}

// Merge folds one execution's snapshot into the running map. Counters
// accumulate: statement and function hits sum per key, branch arm counts
// sum element-wise, location tables union by key. Merging the same
// snapshot twice therefore double-counts; each execution merges exactly
// once. A snapshot with a malformed entry merges nothing.
func (m *Map) Merge(snap Snapshot) error {
	for key, fc := range snap {
		if err := validateEntry(key, fc); err != nil {
			return err
		}
	}

	for _, fc := range snap {
		existing, ok := m.files[fc.Path]
		if !ok {
			m.files[fc.Path] = copyFile(fc)
			continue
		}
		mergeFile(existing, fc)
	}
	return nil
}

func validateEntry(key string, fc FileCoverage) error {
	name := fc.Path
	if name == "" {
		name = key
	}
	if fc.Path == "" {
		return &MalformedCoverageError{File: name, Reason: "missing path"}
	}
	if fc.S == nil {
		return &MalformedCoverageError{File: name, Reason: "missing statement counters"}
	}
	return nil
}

func mergeFile(dst *FileCoverage, src FileCoverage) {
	for k, hits := range src.S {
		dst.S[k] += hits
	}
	for k, hits := range src.F {
		if dst.F == nil {
			dst.F = make(map[string]int)
		}
		dst.F[k] += hits
	}
	for k, arms := range src.B {
		if dst.B == nil {
			dst.B = make(map[string][]int)
		}
		merged := dst.B[k]
		for i, hits := range arms {
			if i < len(merged) {
				merged[i] += hits
			} else {
				merged = append(merged, hits)
			}
		}
		dst.B[k] = merged
	}

	for k, loc := range src.StatementMap {
		if _, ok := dst.StatementMap[k]; !ok {
			if dst.StatementMap == nil {
				dst.StatementMap = make(map[string]Location)
			}
			dst.StatementMap[k] = loc
		}
	}
	for k, fn := range src.FnMap {
		if _, ok := dst.FnMap[k]; !ok {
			if dst.FnMap == nil {
				dst.FnMap = make(map[string]FnMeta)
			}
			dst.FnMap[k] = fn
		}
	}
	for k, br := range src.BranchMap {
		if _, ok := dst.BranchMap[k]; !ok {
			if dst.BranchMap == nil {
				dst.BranchMap = make(map[string]BranchMeta)
			}
			dst.BranchMap[k] = copyBranchMeta(br)
		}
	}
}

func copyFile(fc FileCoverage) *FileCoverage {
	out := &FileCoverage{
		Path:         fc.Path,
		StatementMap: make(map[string]Location, len(fc.StatementMap)),
		FnMap:        make(map[string]FnMeta, len(fc.FnMap)),
		BranchMap:    make(map[string]BranchMeta, len(fc.BranchMap)),
		S:            make(map[string]int, len(fc.S)),
		F:            make(map[string]int, len(fc.F)),
		B:            make(map[string][]int, len(fc.B)),
	}
	for k, v := range fc.StatementMap {
		out.StatementMap[k] = v
	}
	for k, v := range fc.FnMap {
		out.FnMap[k] = v
	}
	for k, v := range fc.BranchMap {
		out.BranchMap[k] = copyBranchMeta(v)
	}
	for k, v := range fc.S {
		out.S[k] = v
	}
	for k, v := range fc.F {
		out.F[k] = v
	}
	for k, v := range fc.B {
		arms := make([]int, len(v))
		copy(arms, v)
		out.B[k] = arms
	}
	return out
}

func copyBranchMeta(br BranchMeta) BranchMeta {
	out := br
	if br.Locations != nil {
		out.Locations = make([]Location, len(br.Locations))
		copy(out.Locations, br.Locations)
	}
	return out
}
