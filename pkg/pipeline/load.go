package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/family"
)

// LoadFile reads the dataset at path. A missing file is FAMILY_NOT_FOUND
// and undecodable content is INVALID_DATASET.
func LoadFile(path string) (*family.Dataset, error) {
	ds, err := family.ImportJSON(path)
	switch {
	case err == nil:
		return ds, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, perrors.Wrap(perrors.ErrCodeFamilyNotFound, err, "dataset %s not found", path)
	default:
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "read dataset %s", path)
	}
}

// FamilyPath returns the dataset file of familyID inside dir after
// validating the id.
func FamilyPath(dir, familyID string) (string, error) {
	if err := perrors.ValidateFamilyID(familyID); err != nil {
		return "", err
	}
	return filepath.Join(dir, familyID+".json"), nil
}

// ListFamilies returns the sorted ids of the datasets in dir, one per
// "<id>.json" file.
func ListFamilies(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeNotFound, err, "read data dir %s", dir)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || strings.HasSuffix(name, ".annotations.json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if perrors.ValidateFamilyID(id) == nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
