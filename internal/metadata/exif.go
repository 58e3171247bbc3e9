package metadata

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

type EXIFExtractor struct{}

func NewEXIFExtractor() *EXIFExtractor {
	return &EXIFExtractor{}
}

func (e *EXIFExtractor) Extract(r io.Reader) Result {
	x, err := exif.Decode(r)
	if err != nil {
		return Result{Error: "no EXIF data: " + err.Error()}
	}

	if t, err := x.DateTime(); err == nil {
		return Result{
			CreatedAt: &t,
			Source:    "EXIF:DateTimeOriginal",
		}
	}

	if tag, err := x.Get(exif.DateTimeDigitized); err == nil {
		if strVal, err := tag.StringVal(); err == nil {
			if t, err := time.ParseInLocation("2006:01:02 15:04:05", strVal, time.Local); err == nil {
				return Result{
					CreatedAt: &t,
					Source:    "EXIF:DateTimeDigitized",
				}
			}
		}
	}

	return Result{Error: "no capture time found in EXIF"}
}
