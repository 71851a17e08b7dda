package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/pedigree/pkg/cache"
	"github.com/matzehuels/pedigree/pkg/family"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Layout is a laid-out dataset together with its pass result.
type Layout struct {
	Dataset *family.Dataset
	Result  *pedigree.Result

	// Hash is the content hash of the laid-out dataset. It is stable
	// across passes over the same input.
	Hash string
}

// FamilyID returns the family the layout belongs to.
func (l *Layout) FamilyID() string { return l.Dataset.FamilyID() }

type layoutJSON struct {
	Dataset json.RawMessage  `json:"dataset"`
	Result  *pedigree.Result `json:"result"`
}

// GenerateLayout lays out a copy of ds; ds itself is not modified.
// In strict mode the error is returned together with the layout.
func GenerateLayout(ds *family.Dataset, opts Options) (*Layout, error) {
	opts.SetDefaults()
	work := ds.Clone()
	// Strict is evaluated below so cached results report it the same way.
	res, _ := pedigree.Run(work, opts.pedigreeOptions())

	data, err := family.MarshalJSON(work)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	l := &Layout{Dataset: work, Result: res, Hash: hashDataset(data)}
	if opts.Strict {
		return l, pedigree.StrictError(res, opts.MaxDepth)
	}
	return l, nil
}

// MarshalLayout encodes l for caching.
func MarshalLayout(l *Layout) ([]byte, error) {
	ds, err := family.MarshalJSON(l.Dataset)
	if err != nil {
		return nil, err
	}
	return json.Marshal(layoutJSON{Dataset: ds, Result: l.Result})
}

// UnmarshalLayout decodes a layout written by [MarshalLayout].
func UnmarshalLayout(data []byte) (*Layout, error) {
	var lj layoutJSON
	if err := json.Unmarshal(data, &lj); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if lj.Result == nil || len(lj.Dataset) == 0 {
		return nil, fmt.Errorf("decode layout: missing dataset or result")
	}
	ds, err := family.ReadJSON(bytes.NewReader(lj.Dataset))
	if err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if lj.Result.Overlaps == nil {
		lj.Result.Overlaps = map[string]pedigree.Placement{}
	}
	return &Layout{Dataset: ds, Result: lj.Result, Hash: hashDataset(lj.Dataset)}, nil
}

// hashDataset hashes the compact form of an encoded dataset, so indented
// and embedded encodings agree.
func hashDataset(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return cache.Hash(data)
	}
	return cache.Hash(buf.Bytes())
}
