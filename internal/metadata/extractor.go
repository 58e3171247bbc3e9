package metadata

import (
	"io"
	"strings"
	"time"
)

// Result carries a creation time recovered from file contents.
type Result struct {
	// CreatedAt is nil if extraction failed.
	CreatedAt *time.Time
	// Source indicates where the time came from (e.g., "EXIF:DateTimeOriginal", "Frontmatter:created").
	Source string
	// Error contains extraction error message if any.
	Error string
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "tif": true, "tiff": true, "heic": true, "heif": true,
	"arw": true, "cr2": true, "nef": true, "dng": true,
}

type Extractor struct {
	exif        *EXIFExtractor
	frontmatter *FrontmatterExtractor
}

func New() *Extractor {
	return &Extractor{
		exif:        NewEXIFExtractor(),
		frontmatter: NewFrontmatterExtractor(),
	}
}

// Supports reports whether ext has an embedded creation time worth reading.
func (e *Extractor) Supports(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == "md" || imageExtensions[ext]
}

func (e *Extractor) Extract(ext string, r io.Reader) Result {
	ext = strings.ToLower(ext)
	if ext == "md" {
		return e.frontmatter.Extract(r)
	}
	if imageExtensions[ext] {
		return e.exif.Extract(r)
	}
	return Result{Error: "no embedded creation time for ." + ext}
}
