package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/tmfelwu/obsidian-file-rename/internal/config"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

// TestParseSetting는 테스트 코드 동작을 검증하거나 보조합니다.
func TestParseSetting(t *testing.T) {
	patch, err := parseSetting("position", "append")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if patch.Position == nil || *patch.Position != types.PositionAppend {
		t.Fatalf("unexpected patch: %+v", patch)
	}

	patch, err = parseSetting("markdownOnly", "false")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if patch.MarkdownOnly == nil || *patch.MarkdownOnly {
		t.Fatalf("unexpected patch: %+v", patch)
	}

	patch, err = parseSetting("avoidDuplicatePrefix", "false")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := config.Merge(config.DefaultSettings(), patch); got.AvoidDuplicateDate {
		t.Fatal("legacy key should map onto avoidDuplicateDate")
	}
}

// TestParseSetting_Errors는 테스트 코드 동작을 검증하거나 보조합니다.
func TestParseSetting_Errors(t *testing.T) {
	var validationErr *config.ValidationError

	if _, err := parseSetting("colour", "red"); !errors.As(err, &validationErr) || validationErr.Field != "colour" {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	if _, err := parseSetting("markdownOnly", "maybe"); !errors.As(err, &validationErr) {
		t.Fatalf("expected bool error, got %v", err)
	}
}

// TestOverlayFlags_OnlyChangedFlags는 테스트 코드 동작을 검증하거나 보조합니다.
func TestOverlayFlags_OnlyChangedFlags(t *testing.T) {
	// 명시적으로 준 플래그만 설정 파일 값을 덮어써야 한다.
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().StringVar(&separator, "separator", "", "")
	cmd.Flags().StringVar(&position, "position", "", "")
	cmd.Flags().StringVar(&dateFormat, "date-format", "", "")
	cmd.Flags().StringVar(&dateSource, "date-source", "", "")
	cmd.Flags().StringVar(&conflictStrategy, "conflict", "", "")
	cmd.Flags().BoolVar(&markdownOnly, "markdown-only", true, "")
	cmd.Flags().BoolVar(&avoidDuplicateDate, "avoid-duplicate-date", true, "")
	if err := cmd.ParseFlags([]string{"--separator", "_", "--markdown-only=false"}); err != nil {
		t.Fatalf("parse flags failed: %v", err)
	}

	fromFile := "YYYYMMDD"
	p := overlayFlags(cmd, config.Partial{DateFormat: &fromFile})

	if p.DateFormat == nil || *p.DateFormat != "YYYYMMDD" {
		t.Fatal("config file value should survive")
	}
	if p.Separator == nil || *p.Separator != "_" {
		t.Fatal("separator flag not applied")
	}
	if p.MarkdownOnly == nil || *p.MarkdownOnly {
		t.Fatal("markdown-only flag not applied")
	}
	if p.Position != nil || p.ConflictStrategy != nil || p.AvoidDuplicateDate != nil {
		t.Fatalf("unchanged flags must stay unset: %+v", p)
	}
}

// TestRenameCommand_EndToEnd는 테스트 코드 동작을 검증하거나 보조합니다.
func TestRenameCommand_EndToEnd(t *testing.T) {
	vault := t.TempDir()
	data := t.TempDir()
	if err := os.WriteFile(filepath.Join(vault, "Ideas.md"), []byte("---\ncreated: 2021-05-04\n---\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"rename", "Ideas.md", "--vault", vault, "--data-dir", data, "--date-source", "created"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(vault, "2021-05-04 Ideas.md")); err != nil {
		t.Fatalf("expected renamed file: %v (output %s)", err, out.String())
	}
	if !strings.Contains(out.String(), "Renamed to: 2021-05-04 Ideas.md") {
		t.Fatalf("missing notice: %s", out.String())
	}

	// 두 번째 실행은 no-op이며 에러 없이 끝나야 한다.
	out.Reset()
	rootCmd.SetArgs([]string{"rename", "2021-05-04 Ideas.md", "--vault", vault, "--data-dir", data, "--date-source", "created"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("second rename should be a no-op: %v", err)
	}
	if !strings.Contains(out.String(), "Date already present at start of name.") {
		t.Fatalf("missing notice: %s", out.String())
	}
}
