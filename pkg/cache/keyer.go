package cache

import "time"

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a full layout of a dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ColumnsKey identifies a bare column grid.
	ColumnsKey(opts ColumnsKeyOpts) string
}

// LayoutKeyOpts are the inputs of a layout besides the dataset.
type LayoutKeyOpts struct {
	OptionsHash string    `json:"options"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
}

// ColumnsKeyOpts are the inputs of a column grid.
type ColumnsKeyOpts struct {
	OptionsHash string    `json:"options"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	MaxWidth    float64   `json:"max_width,omitempty"`
	Reverse     bool      `json:"reverse,omitempty"`
}

// DefaultKeyer hashes all inputs into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

// ColumnsKey implements Keyer.
func (DefaultKeyer) ColumnsKey(opts ColumnsKeyOpts) string {
	return hashKey("columns", opts)
}

var _ Keyer = DefaultKeyer{}
