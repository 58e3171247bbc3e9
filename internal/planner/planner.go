package planner

import (
	"strings"

	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
	"golang.org/x/text/unicode/norm"
)

// Composition is the outcome of placing a date next to a base name.
type Composition struct {
	BaseName string
	// Skipped is set when the date is already at the chosen edge of the name.
	Skipped bool
}

// Compose builds the candidate base name. With avoidDuplicateDate set, a name
// that already starts (prepend) or ends (append) with exactly the same
// date+separator is left alone. Only the current format, separator and
// position are compared; a date written under older settings is not detected.
func Compose(baseName, formattedDate, separator string, position types.Position, avoidDuplicateDate bool) Composition {
	if position == types.PositionPrepend {
		prefix := formattedDate + separator
		if avoidDuplicateDate && strings.HasPrefix(baseName, prefix) {
			return Composition{BaseName: baseName, Skipped: true}
		}
		return Composition{BaseName: prefix + baseName}
	}

	suffix := separator + formattedDate
	if avoidDuplicateDate && strings.HasSuffix(baseName, suffix) {
		return Composition{BaseName: baseName, Skipped: true}
	}
	return Composition{BaseName: baseName + suffix}
}

// BuildPath joins a vault directory, base name and extension into a
// normalized vault path. The vault root may be given as "" or "/".
func BuildPath(dir, baseName, ext string) string {
	name := baseName
	if ext != "" {
		name += "." + ext
	}

	dir = NormalizePath(dir)
	if dir == "/" {
		return NormalizePath(name)
	}
	return NormalizePath(dir + "/" + name)
}

// NormalizePath collapses runs of slashes and backslashes into a single "/",
// trims leading and trailing separators, replaces non-breaking spaces with
// regular spaces and converts the result to NFC. The vault root is "/".
func NormalizePath(p string) string {
	var b strings.Builder
	b.Grow(len(p))

	lastSep := false
	for _, r := range p {
		switch r {
		case '/', '\\':
			if !lastSep {
				b.WriteByte('/')
			}
			lastSep = true
			continue
		case '\u00a0', '\u202f':
			r = ' '
		}
		b.WriteRune(r)
		lastSep = false
	}

	out := strings.Trim(b.String(), "/")
	if out == "" {
		return "/"
	}
	return norm.NFC.String(out)
}

// Planner applies one configuration snapshot to files.
type Planner struct {
	separator          string
	position           types.Position
	avoidDuplicateDate bool
}

func New(separator string, position types.Position, avoidDuplicateDate bool) *Planner {
	return &Planner{
		separator:          separator,
		position:           position,
		avoidDuplicateDate: avoidDuplicateDate,
	}
}

// Plan is a candidate rename for one file.
type Plan struct {
	Source   types.FileDescriptor
	BaseName string
	Path     string
	Skipped  bool
}

func (p *Planner) Plan(desc types.FileDescriptor, formattedDate string) Plan {
	c := Compose(desc.BaseName, formattedDate, p.separator, p.position, p.avoidDuplicateDate)
	plan := Plan{
		Source:   desc,
		BaseName: c.BaseName,
		Skipped:  c.Skipped,
	}
	if !c.Skipped {
		plan.Path = BuildPath(desc.Dir, c.BaseName, desc.Extension)
	}
	return plan
}
