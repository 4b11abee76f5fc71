// Package pkg holds module metadata and helpers shared by the command and
// its subpackages.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, read from the VERSION file
// at build time.
//
//nolint:gochecknoglobals
var Version = strings.TrimSpace(version)

const (
	// Name is the command name and the base name of its config and cache
	// directories.
	Name = "sxhtml"
	// Description summarizes the command in help output.
	Description = "Render HTML from S-expression templates"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors of the module.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

func (a AuthorInfo) String() string {
	switch {
	case a.Email == "":
		return a.Name
	case a.Name == "":
		return "<" + a.Email + ">"
	default:
		return a.Name + " <" + a.Email + ">"
	}
}

// VersionString is the version banner printed by --version.
func VersionString() string {
	authors := make([]string, len(Author))
	for i, a := range Author {
		authors[i] = a.String()
	}

	return Name + " " + Version + " (" + strings.Join(authors, ", ") + ")"
}
