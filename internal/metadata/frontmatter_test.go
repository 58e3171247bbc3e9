package metadata

import (
	"strings"
	"testing"
	"time"
)

// TestFrontmatterExtractor_Extract는 frontmatter의 생성 시각 키 해석을 검증합니다.
func TestFrontmatterExtractor_Extract(t *testing.T) {
	tests := []struct {
		name       string
		note       string
		want       time.Time
		wantSource string
		wantErr    string
	}{
		{
			name:       "date only",
			note:       "---\ncreated: 2024-03-07\n---\nbody",
			want:       time.Date(2024, 3, 7, 0, 0, 0, 0, time.Local),
			wantSource: "Frontmatter:created",
		},
		{
			name:       "quoted datetime",
			note:       "---\ncreated: \"2024-03-07 09:05:00\"\n---\n",
			want:       time.Date(2024, 3, 7, 9, 5, 0, 0, time.Local),
			wantSource: "Frontmatter:created",
		},
		{
			name:       "obsidian style key",
			note:       "---\ndate created: 2023-12-31T23:59\n---\n",
			want:       time.Date(2023, 12, 31, 23, 59, 0, 0, time.Local),
			wantSource: "Frontmatter:date created",
		},
		{
			name:       "falls through unparseable key",
			note:       "---\ncreated: someday\ndate: 2022-01-02\n---\n",
			want:       time.Date(2022, 1, 2, 0, 0, 0, 0, time.Local),
			wantSource: "Frontmatter:date",
		},
		{
			name:    "no frontmatter",
			note:    "# Title\ncreated: 2024-03-07\n",
			wantErr: "no frontmatter",
		},
		{
			name:    "unterminated block",
			note:    "---\ncreated: 2024-03-07\n",
			wantErr: "no frontmatter",
		},
		{
			name:    "missing key",
			note:    "---\ntitle: x\n---\n",
			wantErr: "created not found in frontmatter",
		},
		{
			name:    "invalid yaml",
			note:    "---\ncreated: [unclosed\n---\n",
			wantErr: "failed to parse frontmatter",
		},
	}

	e := NewFrontmatterExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := e.Extract(strings.NewReader(tt.note))
			if tt.wantErr != "" {
				if !strings.Contains(meta.Error, tt.wantErr) {
					t.Fatalf("expected error %q, got %q", tt.wantErr, meta.Error)
				}
				return
			}
			if meta.CreatedAt == nil {
				t.Fatalf("expected creation time, got error: %s", meta.Error)
			}
			if !meta.CreatedAt.Equal(tt.want) {
				t.Fatalf("want %v, got %v", tt.want, *meta.CreatedAt)
			}
			if meta.Source != tt.wantSource {
				t.Fatalf("want source %s, got %s", tt.wantSource, meta.Source)
			}
		})
	}
}
