package pipeline

import "github.com/tmfelwu/obsidian-file-rename/pkg/types"

type ProgressCallback func(update ProgressUpdate)

type ProgressUpdate struct {
	Type    string              `json:"type"`
	Message string              `json:"message,omitempty"`
	Result  *types.RenameResult `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
}
