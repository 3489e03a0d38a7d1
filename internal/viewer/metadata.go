package viewer

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Faultbox/objviewer/internal/config"
)

// Labels of the extended entries.
const (
	LabelVertices = "Vertices"
	LabelFaces    = "Faces"

	loadingValue = "Loading..."
)

// MetadataEntry is one label/value row.
type MetadataEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Metadata is the ordered model information list. Entries are fixed at
// construction; only the values of the count entries change.
type Metadata struct {
	entries  []MetadataEntry
	vertices int // index of the Vertices entry, -1 without extended metadata
	faces    int
	printer  *message.Printer
}

// NewMetadata builds the list from the configured rows, appending Vertices
// and Faces when extended is set.
func NewMetadata(base []config.MetadataEntry, extended bool) *Metadata {
	m := &Metadata{
		vertices: -1,
		faces:    -1,
		printer:  message.NewPrinter(language.English),
	}
	for _, e := range base {
		m.entries = append(m.entries, MetadataEntry{Label: e.Label, Value: e.Value})
	}
	if extended {
		m.vertices = len(m.entries)
		m.entries = append(m.entries, MetadataEntry{Label: LabelVertices, Value: loadingValue})
		m.faces = len(m.entries)
		m.entries = append(m.entries, MetadataEntry{Label: LabelFaces, Value: loadingValue})
	}
	return m
}

// Entries returns a copy of the rows in order.
func (m *Metadata) Entries() []MetadataEntry {
	return append([]MetadataEntry(nil), m.entries...)
}

// Len returns the number of rows.
func (m *Metadata) Len() int {
	return len(m.entries)
}

// Extended reports whether the count rows are present.
func (m *Metadata) Extended() bool {
	return m.vertices >= 0
}

// SetCounts fills the count rows with thousands-separated numbers.
func (m *Metadata) SetCounts(vertices, faces int) {
	if !m.Extended() {
		return
	}
	m.entries[m.vertices].Value = m.printer.Sprintf("%d", vertices)
	m.entries[m.faces].Value = m.printer.Sprintf("%d", faces)
}

// ResetCounts puts the count rows back to the loading placeholder.
func (m *Metadata) ResetCounts() {
	if !m.Extended() {
		return
	}
	m.entries[m.vertices].Value = loadingValue
	m.entries[m.faces].Value = loadingValue
}
