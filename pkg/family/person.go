package family

import "strings"

// Gender is the closed set of genders the layout distinguishes.
type Gender int

const (
	// GenderUnknown covers missing or unrecognized values.
	GenderUnknown Gender = iota
	// GenderMale is drawn as a square and placed right of a partner.
	GenderMale
	// GenderFemale is drawn as a circle and placed left of a partner.
	GenderFemale
)

// ParseGender maps a dataset value to a Gender. Matching is
// case-insensitive and accepts the single-letter forms; anything else is
// GenderUnknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// String returns the dataset spelling of the gender.
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "Unknown"
	}
}

// Side identifies which branch of the proband's ancestry a person belongs to.
type Side int

const (
	// SideProband is the proband's own line: the proband, siblings reached
	// before any parent, and their descendants.
	SideProband Side = iota
	// SideMaternal is everyone reached through the proband's mother.
	SideMaternal
	// SidePaternal is everyone reached through the proband's father.
	SidePaternal
)

// String returns the lowercase side name used in JSON output.
func (s Side) String() string {
	switch s {
	case SideMaternal:
		return "maternal"
	case SidePaternal:
		return "paternal"
	default:
		return "proband"
	}
}

// ParseSide is the inverse of [Side.String]. Unrecognized values map to
// SideProband.
func ParseSide(s string) Side {
	switch s {
	case "maternal":
		return SideMaternal
	case "paternal":
		return SidePaternal
	default:
		return SideProband
	}
}

// Role is the parental role a placeholder stands in for.
type Role int

const (
	RoleMother Role = iota
	RoleFather
)

func (r Role) String() string {
	if r == RoleFather {
		return "father"
	}
	return "mother"
}

// Person is one individual or synthesized placeholder.
//
// ID, MotherID, FatherID, Gender, Name and Deceased come from the input.
// Placeholder is set for synthesized records. Generation, Side and Placed are
// written by the tree builder; Slot and HasSlot by the coordinate assigner.
type Person struct {
	ID       string
	MotherID string // "" when unknown
	FatherID string // "" when unknown
	Gender   Gender
	Name     string
	Deceased string // free-form date or marker; empty when living

	Placeholder bool
	Anchor      string // known parent a placeholder was synthesized beside

	Generation int  // 0 = proband, negative = ancestors, positive = descendants
	Side       Side // lineage branch
	Placed     bool // Generation and Side are valid

	Slot    int  // horizontal slot within the generation row
	HasSlot bool // Slot is valid
}

// HasParents reports whether at least one parent is recorded.
func (p *Person) HasParents() bool { return p.MotherID != "" || p.FatherID != "" }

// IsDeceased reports whether the person has a deceased marker.
func (p *Person) IsDeceased() bool { return p.Deceased != "" }

// Parent returns the parent id for role.
func (p *Person) Parent(r Role) string {
	if r == RoleFather {
		return p.FatherID
	}
	return p.MotherID
}

func (p *Person) setParent(r Role, id string) {
	if r == RoleFather {
		p.FatherID = id
	} else {
		p.MotherID = id
	}
}

// ClearLayout resets everything a layout pass writes.
func (p *Person) ClearLayout() {
	p.Generation = 0
	p.Side = SideProband
	p.Placed = false
	p.Slot = 0
	p.HasSlot = false
}
