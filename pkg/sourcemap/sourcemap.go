// Package sourcemap accumulates generated-to-source position mappings while
// the code generator writes output.
package sourcemap

// Mapping relates one generated position to its originating source position.
// All positions are 1-based lines and columns.
type Mapping struct {
	GenLine int `yaml:"genLine" json:"genLine"`
	GenCol  int `yaml:"genCol"  json:"genCol"`
	SrcLine int `yaml:"srcLine" json:"srcLine"`
	SrcCol  int `yaml:"srcCol"  json:"srcCol"`
}

// Builder collects mappings in generation order.
//
// A disabled builder skips appends entirely so transpilation without source
// maps pays no allocation cost; the caller's cursor bookkeeping is
// unaffected either way.
type Builder struct {
	enabled  bool
	mappings []Mapping
}

// NewBuilder creates a Builder. When enabled is false, Add is a no-op.
func NewBuilder(enabled bool) *Builder {
	return &Builder{enabled: enabled}
}

// Enabled reports whether mappings are being recorded.
func (b *Builder) Enabled() bool {
	return b.enabled
}

// Add appends one mapping.
func (b *Builder) Add(genLine, genCol, srcLine, srcCol int) {
	if !b.enabled {
		return
	}
	b.mappings = append(b.mappings, Mapping{
		GenLine: genLine,
		GenCol:  genCol,
		SrcLine: srcLine,
		SrcCol:  srcCol,
	})
}

// SourceMap is the finalized, ordered mapping table.
type SourceMap struct {
	Mappings []Mapping `yaml:"mappings" json:"mappings"`
}

// Finalize copies the accumulated mappings into an immutable SourceMap.
// Returns nil when the builder was disabled.
func (b *Builder) Finalize() *SourceMap {
	if !b.enabled {
		return nil
	}
	out := make([]Mapping, len(b.mappings))
	copy(out, b.mappings)
	return &SourceMap{Mappings: out}
}
