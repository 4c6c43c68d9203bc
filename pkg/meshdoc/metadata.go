package meshdoc

// Metadata is one key-value metadata entry. Entries are scoped by a
// namespace/name pair; MustPreserve marks entries consumers should keep
// even when they do not understand them.
type Metadata struct {
	Namespace    string
	Name         string
	Value        string
	Type         string
	MustPreserve bool
}

// MetadataGroup holds a document's metadata entries in insertion order.
type MetadataGroup struct {
	entries []Metadata
}

// Add appends a metadata entry.
func (g *MetadataGroup) Add(md Metadata) {
	g.entries = append(g.entries, md)
}

// Entries returns all entries in insertion order.
func (g *MetadataGroup) Entries() []Metadata { return g.entries }

// Count returns the number of entries.
func (g *MetadataGroup) Count() int { return len(g.entries) }

// ByKey returns the first entry matching the namespace/name pair.
func (g *MetadataGroup) ByKey(namespace, name string) (Metadata, bool) {
	for _, md := range g.entries {
		if md.Namespace == namespace && md.Name == name {
			return md, true
		}
	}
	return Metadata{}, false
}
