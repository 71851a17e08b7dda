package cache

// keyVersion is bumped whenever the layout algorithm changes what it
// produces for the same input, invalidating older entries.
const keyVersion = "v1"

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey identifies a laid-out dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string

	// ChartKey identifies a projected chart.
	ChartKey(layoutHash string, opts ChartKeyOpts) string

	// ArtifactKey identifies a rendered artifact.
	ArtifactKey(chartHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout options that change a pass's output.
type LayoutKeyOpts struct {
	MaxDepth       int  `json:"max_depth"`
	SkipSeparation bool `json:"skip_separation"`
}

// ChartKeyOpts holds the chart geometry and the saved positions applied.
type ChartKeyOpts struct {
	Margin          int    `json:"margin"`
	HSpacing        int    `json:"h_spacing"`
	VSpacing        int    `json:"v_spacing"`
	Size            int    `json:"size"`
	AnnotationsHash string `json:"annotations_hash,omitempty"`
}

// ArtifactKeyOpts identifies an output format.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Labels      bool   `json:"labels"`
	Interactive bool   `json:"interactive,omitempty"`
	DragURL     string `json:"drag_url,omitempty"`
}

// DefaultKeyer hashes stage inputs into "<stage>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", keyVersion, datasetHash, opts)
}

// ChartKey implements Keyer.
func (DefaultKeyer) ChartKey(layoutHash string, opts ChartKeyOpts) string {
	return hashKey("chart", keyVersion, layoutHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(chartHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, chartHash, opts)
}

var _ Keyer = DefaultKeyer{}
