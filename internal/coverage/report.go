package coverage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/solheim-studio/heimdall/internal/types"
)

// Render serializes the accumulated map into one report format. A map
// holding a malformed entry fails before anything is emitted.
func (m *Map) Render(format types.ReportFormat) ([]byte, error) {
	for path, fc := range m.files {
		if err := validateEntry(path, *fc); err != nil {
			return nil, err
		}
	}

	switch format {
	case types.FormatJSON:
		return m.renderJSON()
	case types.FormatText:
		return m.renderText(), nil
	case types.FormatLCOV:
		return m.renderLCOV(), nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", format)
	}
}

func (m *Map) renderJSON() ([]byte, error) {
	out := make(map[string]FileCoverage, len(m.files))
	for path, fc := range m.files {
		out[path] = *fc
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type fileSummary struct {
	path           string
	stmtHit        int
	stmtTotal      int
	branchHit      int
	branchTotal    int
	fnHit          int
	fnTotal        int
	uncoveredLines []int
}

func summarize(fc *FileCoverage) fileSummary {
	sum := fileSummary{path: fc.Path}

	uncovered := make(map[int]bool)
	covered := make(map[int]bool)
	for _, k := range counterKeys(fc.S) {
		hits := fc.S[k]
		sum.stmtTotal++
		line := fc.StatementMap[k].Start.Line
		if hits > 0 {
			sum.stmtHit++
			covered[line] = true
		} else if line > 0 {
			uncovered[line] = true
		}
	}
	for line := range uncovered {
		if !covered[line] {
			sum.uncoveredLines = append(sum.uncoveredLines, line)
		}
	}
	sort.Ints(sum.uncoveredLines)

	for _, hits := range fc.F {
		sum.fnTotal++
		if hits > 0 {
			sum.fnHit++
		}
	}
	for _, arms := range fc.B {
		for _, hits := range arms {
			sum.branchTotal++
			if hits > 0 {
				sum.branchHit++
			}
		}
	}
	return sum
}

func pct(hit, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(hit) / float64(total) * 100
}

func (m *Map) renderText() []byte {
	summaries := make([]fileSummary, 0, len(m.files))
	total := fileSummary{path: "All files"}
	for _, path := range m.Files() {
		sum := summarize(m.files[path])
		summaries = append(summaries, sum)
		total.stmtHit += sum.stmtHit
		total.stmtTotal += sum.stmtTotal
		total.branchHit += sum.branchHit
		total.branchTotal += sum.branchTotal
		total.fnHit += sum.fnHit
		total.fnTotal += sum.fnTotal
	}

	width := len(total.path)
	for _, sum := range summaries {
		if len(sum.path) > width {
			width = len(sum.path)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s | %% Stmts | %% Branch | %% Funcs | Uncovered Lines\n", width, "File")
	sb.WriteString(strings.Repeat("-", width+1))
	sb.WriteString("|---------|----------|---------|----------------\n")
	writeRow := func(sum fileSummary) {
		lines := make([]string, len(sum.uncoveredLines))
		for i, line := range sum.uncoveredLines {
			lines[i] = strconv.Itoa(line)
		}
		fmt.Fprintf(&sb, "%-*s | %7.2f | %8.2f | %7.2f | %s\n",
			width, sum.path,
			pct(sum.stmtHit, sum.stmtTotal),
			pct(sum.branchHit, sum.branchTotal),
			pct(sum.fnHit, sum.fnTotal),
			strings.Join(lines, ","))
	}
	writeRow(total)
	for _, sum := range summaries {
		writeRow(sum)
	}
	return []byte(sb.String())
}

func (m *Map) renderLCOV() []byte {
	var sb strings.Builder
	for _, path := range m.Files() {
		fc := m.files[path]
		sb.WriteString("TN:\n")
		fmt.Fprintf(&sb, "SF:%s\n", fc.Path)

		fnHit := 0
		for _, k := range counterKeys(fc.FnMap) {
			fn := fc.FnMap[k]
			fmt.Fprintf(&sb, "FN:%d,%s\n", fn.Decl.Start.Line, fn.Name)
		}
		for _, k := range counterKeys(fc.FnMap) {
			fn := fc.FnMap[k]
			hits := fc.F[k]
			if hits > 0 {
				fnHit++
			}
			fmt.Fprintf(&sb, "FNDA:%d,%s\n", hits, fn.Name)
		}
		fmt.Fprintf(&sb, "FNF:%d\n", len(fc.FnMap))
		fmt.Fprintf(&sb, "FNH:%d\n", fnHit)

		// Line hits derive from statement starts; overlapping statements
		// on one line keep the highest count.
		lineHits := make(map[int]int)
		for k, loc := range fc.StatementMap {
			line := loc.Start.Line
			if line <= 0 {
				continue
			}
			hits := fc.S[k]
			if existing, ok := lineHits[line]; !ok || hits > existing {
				lineHits[line] = hits
			}
		}
		lines := make([]int, 0, len(lineHits))
		for line := range lineHits {
			lines = append(lines, line)
		}
		sort.Ints(lines)
		lineHit := 0
		for _, line := range lines {
			if lineHits[line] > 0 {
				lineHit++
			}
			fmt.Fprintf(&sb, "DA:%d,%d\n", line, lineHits[line])
		}
		fmt.Fprintf(&sb, "LF:%d\n", len(lines))
		fmt.Fprintf(&sb, "LH:%d\n", lineHit)

		branchTotal, branchHit := 0, 0
		for _, k := range counterKeys(fc.B) {
			arms := fc.B[k]
			meta := fc.BranchMap[k]
			for i, hits := range arms {
				line := meta.Loc.Start.Line
				if i < len(meta.Locations) && meta.Locations[i].Start.Line > 0 {
					line = meta.Locations[i].Start.Line
				}
				branchTotal++
				if hits > 0 {
					branchHit++
				}
				fmt.Fprintf(&sb, "BRDA:%d,%s,%d,%d\n", line, k, i, hits)
			}
		}
		fmt.Fprintf(&sb, "BRF:%d\n", branchTotal)
		fmt.Fprintf(&sb, "BRH:%d\n", branchHit)
		sb.WriteString("end_of_record\n")
	}
	return []byte(sb.String())
}
