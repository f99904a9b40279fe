// Package sourcemap writes version 3 source maps for generated CSS.
package sourcemap

import (
	"encoding/json"
	"sort"
	"strings"
)

// Mapping ties a generated position to a position in the source file. All
// fields are 0-based.
type Mapping struct {
	GenLine int
	GenCol  int
	SrcLine int
	SrcCol  int
}

// Builder collects mappings for one generated file with a single source.
type Builder struct {
	file     string
	source   string
	content  *string
	mappings []Mapping
}

// New returns a Builder for the generated file that maps back to source.
func New(file, source string) *Builder {
	return &Builder{file: file, source: source}
}

// SetSourceContent embeds the original source text in the map.
func (b *Builder) SetSourceContent(content string) {
	b.content = &content
}

// Add records a mapping.
func (b *Builder) Add(m Mapping) {
	b.mappings = append(b.mappings, m)
}

// Len is the number of recorded mappings.
func (b *Builder) Len() int { return len(b.mappings) }

// Map is the JSON form of a source map.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// Map returns the source map.
func (b *Builder) Map() *Map {
	m := &Map{
		Version:  3,
		File:     b.file,
		Sources:  []string{b.source},
		Names:    []string{},
		Mappings: b.encode(),
	}
	if b.content != nil {
		m.SourcesContent = []*string{b.content}
	}
	return m
}

// JSON returns the encoded source map.
func (b *Builder) JSON() ([]byte, error) {
	return json.Marshal(b.Map())
}

// encode renders the mappings field: lines separated by ';', segments by
// ',', each segment four VLQ fields relative to the previous segment.
func (b *Builder) encode() string {
	ms := append([]Mapping(nil), b.mappings...)
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].GenLine != ms[j].GenLine {
			return ms[i].GenLine < ms[j].GenLine
		}
		return ms[i].GenCol < ms[j].GenCol
	})

	var sb strings.Builder
	line := 0
	prevSrcLine, prevSrcCol := 0, 0
	for i, m := range ms {
		prevGenCol := 0
		if i > 0 && ms[i-1].GenLine == m.GenLine {
			prevGenCol = ms[i-1].GenCol
			sb.WriteByte(',')
		}
		for line < m.GenLine {
			sb.WriteByte(';')
			line++
		}
		writeVLQ(&sb, m.GenCol-prevGenCol)
		writeVLQ(&sb, 0) // single source
		writeVLQ(&sb, m.SrcLine-prevSrcLine)
		writeVLQ(&sb, m.SrcCol-prevSrcCol)
		prevSrcLine, prevSrcCol = m.SrcLine, m.SrcCol
	}
	return sb.String()
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ appends v as a base64 variable-length quantity.
func writeVLQ(sb *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v << 1) | 1
	}
	for {
		digit := u & 31
		u >>= 5
		if u > 0 {
			digit |= 32
		}
		sb.WriteByte(base64Chars[digit])
		if u == 0 {
			return
		}
	}
}
