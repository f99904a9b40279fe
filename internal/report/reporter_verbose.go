package report

import (
	"fmt"
	"io"
	"sort"
)

// Stats are the build statistics printed by VerboseReporter.
type Stats struct {
	FilesDiscovered int
	FilesScanned    int
	FilesSkipped    int
	FilesFailed     int
	// Declarations counts generated identifiers by declaration kind.
	Declarations  map[string]int
	CSSBytes      int
	CacheCompiled int64
	CacheHits     int64
}

// VerboseReporter prints build statistics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs file and cache statistics
func (r *VerboseReporter) PrintStatistics(stats Stats) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Build Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------")

	fmt.Fprintf(r.w, "Files Discovered:   %d\n", stats.FilesDiscovered)
	fmt.Fprintf(r.w, "Files Compiled:     %d\n", stats.FilesScanned-stats.FilesFailed)
	fmt.Fprintf(r.w, "Files Skipped:      %d\n", stats.FilesSkipped)
	fmt.Fprintf(r.w, "Files Failed:       %d\n", stats.FilesFailed)
	fmt.Fprintf(r.w, "CSS Bytes:          %d\n", stats.CSSBytes)
	fmt.Fprintf(r.w, "Helpers Compiled:   %d\n", stats.CacheCompiled)
	fmt.Fprintf(r.w, "Helper Cache Hits:  %d\n", stats.CacheHits)
}

// PrintDeclarations shows generated identifiers per declaration kind
func (r *VerboseReporter) PrintDeclarations(stats Stats) {
	if len(stats.Declarations) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Declarations", r.useColors))
	fmt.Fprintln(r.w, "------------")

	kinds := make([]string, 0, len(stats.Declarations))
	for kind := range stats.Declarations {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	total := 0
	for _, kind := range kinds {
		fmt.Fprintf(r.w, "%-10s%d\n", kind+":", stats.Declarations[kind])
		total += stats.Declarations[kind]
	}
	fmt.Fprintf(r.w, "%-10s%d\n", "total:", total)
}
