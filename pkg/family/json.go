package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type datasetJSON struct {
	Proband string          `json:"proband"`
	People  json.RawMessage `json:"people"`
}

type personJSON struct {
	Mother       string           `json:"mother,omitempty"`
	Father       string           `json:"father,omitempty"`
	Demographics demographicsJSON `json:"demographics"`
	Name         string           `json:"name,omitempty"`
	Deceased     json.RawMessage  `json:"deceased,omitempty"`
	Placeholder  bool             `json:"placeholder,omitempty"`
	Anchor       string           `json:"anchor,omitempty"`

	Generation *int   `json:"generation,omitempty"`
	Side       string `json:"side,omitempty"`
	Slot       *int   `json:"slot,omitempty"`
}

type demographicsJSON struct {
	Gender string `json:"gender,omitempty"`
}

// ReadJSON decodes a dataset from r.
//
// The input must be a JSON object with a "proband" id and a "people" object
// keyed by person id:
//
//	{
//	  "proband": "P",
//	  "people": {
//	    "P": {"mother": "M", "father": "F", "demographics": {"gender": "Male"}},
//	    "M": {"demographics": {"gender": "Female"}},
//	    "F": {"demographics": {"gender": "Male"}}
//	  }
//	}
//
// Empty "mother"/"father" strings are unknown parents. "deceased" may be a
// string (typically a date) or a boolean. The layout fields written by
// [WriteJSON] ("generation", "side", "slot", "placeholder", "anchor") are read back
// when present, so a laid-out dataset round-trips.
//
// People keep the order they have in the file. Dangling parent references are
// left as-is; [Dataset.ResolveReferences] clears them.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var data datasetJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	ds := NewDataset(data.Proband)
	if len(data.People) == 0 || string(data.People) == "null" {
		return ds, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data.People))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode people: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode people: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode people: %w", err)
		}
		id, _ := keyTok.(string)

		var pj personJSON
		if err := dec.Decode(&pj); err != nil {
			return nil, fmt.Errorf("person %s: %w", id, err)
		}
		if err := ds.Add(pj.person(id)); err != nil {
			return nil, fmt.Errorf("person %s: %w", id, err)
		}
	}

	return ds, nil
}

func (pj personJSON) person(id string) Person {
	p := Person{
		ID:          id,
		MotherID:    pj.Mother,
		FatherID:    pj.Father,
		Gender:      ParseGender(pj.Demographics.Gender),
		Name:        pj.Name,
		Deceased:    parseDeceased(pj.Deceased),
		Placeholder: pj.Placeholder,
		Anchor:      pj.Anchor,
	}
	if pj.Generation != nil {
		p.Generation = *pj.Generation
		p.Side = ParseSide(pj.Side)
		p.Placed = true
	}
	if pj.Slot != nil {
		p.Slot = *pj.Slot
		p.HasSlot = true
	}
	return p
}

func parseDeceased(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil && b {
		return "true"
	}
	return ""
}

// ImportJSON reads a dataset file at path. See [ReadJSON].
func ImportJSON(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes ds as JSON in the format [ReadJSON] accepts, with people
// in dataset order and layout fields included for placed people.
func WriteJSON(ds *Dataset, w io.Writer) error {
	data, err := MarshalJSON(ds)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// MarshalJSON returns the indented JSON encoding of ds.
func MarshalJSON(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	proband, err := json.Marshal(ds.Proband)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	buf.WriteString("{\n  \"proband\": ")
	buf.Write(proband)
	buf.WriteString(",\n  \"people\": {")

	for i, p := range ds.People() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(p.ID)
		val, err := json.MarshalIndent(toPersonJSON(p), "    ", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode person %s: %w", p.ID, err)
		}
		buf.WriteString("\n    ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	if ds.Len() > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("}\n}\n")
	return buf.Bytes(), nil
}

func toPersonJSON(p *Person) personJSON {
	pj := personJSON{
		Mother:       p.MotherID,
		Father:       p.FatherID,
		Demographics: demographicsJSON{Gender: p.Gender.String()},
		Name:         p.Name,
		Placeholder:  p.Placeholder,
		Anchor:       p.Anchor,
	}
	if p.Deceased != "" {
		pj.Deceased, _ = json.Marshal(p.Deceased)
	}
	if p.Placed {
		gen := p.Generation
		pj.Generation = &gen
		pj.Side = p.Side.String()
	}
	if p.HasSlot {
		slot := p.Slot
		pj.Slot = &slot
	}
	return pj
}

// ExportJSON writes ds to a JSON file at path.
func ExportJSON(ds *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(ds, f)
}
