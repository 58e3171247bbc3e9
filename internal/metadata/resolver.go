package metadata

import (
	"time"

	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

// ResolveDate picks the point in time used for the date in a new name. now is
// only called for DateSourceNow; file timestamps are passed through as-is.
func ResolveDate(desc types.FileDescriptor, source types.DateSource, now func() time.Time) time.Time {
	switch source {
	case types.DateSourceCreated:
		return desc.CreatedAt
	case types.DateSourceModified:
		return desc.ModifiedAt
	default:
		if now == nil {
			return time.Now()
		}
		return now()
	}
}
