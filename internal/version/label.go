// Package version defines the canonical, totally-ordered label under which
// one documentation set is published. Labels are derived from raw tag names:
// the embedded semantic version is extracted and re-prefixed with "v", so
// "release-1.2.3" and "v1.2.3" both publish as "v1.2.3". Ordering follows
// semantic-version precedence, including prerelease rules.
package version

import (
	"regexp"
	"sort"

	goversion "github.com/hashicorp/go-version"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

// semverPattern matches MAJOR.MINOR.PATCH with an optional prerelease suffix
// anywhere in the input. Arbitrary prefixes (release-, api/, ...) are discarded.
var semverPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)(-[0-9A-Za-z][0-9A-Za-z.-]*)?`)

// Label is an immutable canonical version identifier of the form
// vX.Y.Z[-prerelease].
type Label struct {
	canonical string
	parsed    *goversion.Version
}

// Parse derives a Label from a raw tag string. It fails when no semantic
// version pattern is found anywhere in the input.
func Parse(raw string) (Label, error) {
	match := semverPattern.FindString(raw)
	if match == "" {
		return Label{}, errors.VersionError("no semantic version found in tag").
			WithContext("tag", raw).
			Build()
	}

	parsed, err := goversion.NewSemver(match)
	if err != nil {
		return Label{}, errors.VersionError("invalid semantic version in tag").
			WithCause(err).
			WithContext("tag", raw).
			Build()
	}

	return Label{canonical: "v" + match, parsed: parsed}, nil
}

// IsCanonical reports whether name is already an exact canonical label
// string. Used to decide whether a directory name denotes a published
// version; near-misses like "1.2.3" or "release-1.2.3" are rejected.
func IsCanonical(name string) bool {
	label, err := Parse(name)
	if err != nil {
		return false
	}
	return label.canonical == name
}

// String returns the canonical vX.Y.Z[-prerelease] form.
func (l Label) String() string { return l.canonical }

// IsZero reports whether the label is the zero value (not produced by Parse).
func (l Label) IsZero() bool { return l.parsed == nil }

// Compare returns -1, 0, or 1 per semantic-version precedence. Prereleases
// order before their corresponding final release.
func (l Label) Compare(other Label) int {
	return l.parsed.Compare(other.parsed)
}

// Equal reports whether two labels normalize to the same version.
func (l Label) Equal(other Label) bool { return l.Compare(other) == 0 }

// LessThan reports whether l precedes other.
func (l Label) LessThan(other Label) bool { return l.Compare(other) < 0 }

// Latest returns the maximum label under semantic-version ordering. The
// second return is false for an empty set.
func Latest(labels []Label) (Label, bool) {
	if len(labels) == 0 {
		return Label{}, false
	}
	latest := labels[0]
	for _, l := range labels[1:] {
		if latest.LessThan(l) {
			latest = l
		}
	}
	return latest, true
}

// SortDescending orders labels from newest to oldest in place.
func SortDescending(labels []Label) {
	sort.Slice(labels, func(i, j int) bool {
		return labels[j].LessThan(labels[i])
	})
}
