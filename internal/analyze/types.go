package analyze

import (
	"derive-generator/internal/decl"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "derive-generator/examples/geometry"
	Name    string // e.g., "Point"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// PackageInfo holds the declarations extracted from one loaded package.
type PackageInfo struct {
	Path         string // Import path
	Name         string // Package name
	Dir          string // Directory holding the package sources
	Declarations []*decl.Declaration
}

// TypeIDs returns the identifiers of the package's declarations.
func (p *PackageInfo) TypeIDs() []TypeID {
	ids := make([]TypeID, len(p.Declarations))
	for i, d := range p.Declarations {
		ids[i] = TypeID{PkgPath: p.Path, Name: d.Name}
	}

	return ids
}

// Lookup returns the declaration with the given name, or nil.
func (p *PackageInfo) Lookup(name string) *decl.Declaration {
	for _, d := range p.Declarations {
		if d.Name == name {
			return d
		}
	}

	return nil
}
