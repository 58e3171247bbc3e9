package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// TestMerge_OverlaysOnlySetFields는 테스트 코드 동작을 검증하거나 보조합니다.
func TestMerge_OverlaysOnlySetFields(t *testing.T) {
	// 지정된 필드만 덮어쓰고 나머지는 기본값을 유지해야 한다.
	pos := types.PositionAppend
	merged := Merge(DefaultSettings(), Partial{
		Separator: strPtr("_"),
		Position:  &pos,
	})

	want := DefaultSettings()
	want.Separator = "_"
	want.Position = types.PositionAppend
	if merged != want {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}

// TestMerge_EmptySeparatorIsKept는 테스트 코드 동작을 검증하거나 보조합니다.
func TestMerge_EmptySeparatorIsKept(t *testing.T) {
	// 빈 구분자는 "미지정"이 아니라 명시적 값이어야 한다.
	merged := Merge(DefaultSettings(), Partial{Separator: strPtr("")})
	if merged.Separator != "" {
		t.Fatalf("expected empty separator, got %q", merged.Separator)
	}
}

// TestMerge_LegacyAvoidDuplicatePrefix는 테스트 코드 동작을 검증하거나 보조합니다.
func TestMerge_LegacyAvoidDuplicatePrefix(t *testing.T) {
	// 이전 키 avoidDuplicatePrefix는 avoidDuplicateDate로 매핑되고, 새 키가 우선해야 한다.
	merged := Merge(DefaultSettings(), Partial{AvoidDuplicatePrefix: boolPtr(false)})
	if merged.AvoidDuplicateDate {
		t.Fatal("legacy key should disable avoidDuplicateDate")
	}

	merged = Merge(DefaultSettings(), Partial{
		AvoidDuplicatePrefix: boolPtr(false),
		AvoidDuplicateDate:   boolPtr(true),
	})
	if !merged.AvoidDuplicateDate {
		t.Fatal("new key should win over legacy key")
	}
}

// TestPartialSanitize_BlankDateFormatFallsBackToDefault는 테스트 코드 동작을 검증하거나 보조합니다.
func TestPartialSanitize_BlankDateFormatFallsBackToDefault(t *testing.T) {
	p := Partial{DateFormat: strPtr("   ")}.Sanitize()
	if *p.DateFormat != DefaultDateFormat {
		t.Fatalf("expected default date format, got %q", *p.DateFormat)
	}

	p = Partial{DateFormat: strPtr("  YYYYMMDD ")}.Sanitize()
	if *p.DateFormat != "YYYYMMDD" {
		t.Fatalf("expected trimmed date format, got %q", *p.DateFormat)
	}

	if (Partial{}).Sanitize().DateFormat != nil {
		t.Fatal("unset date format should stay unset")
	}
}

// TestSettingsValidate_RejectsUnknownEnums는 테스트 코드 동작을 검증하거나 보조합니다.
func TestSettingsValidate_RejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(s *Settings)
	}{
		{"position", func(s *Settings) { s.Position = "middle" }},
		{"dateSource", func(s *Settings) { s.DateSource = "accessed" }},
		{"conflictStrategy", func(s *Settings) { s.ConflictStrategy = "overwrite" }},
	}

	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	for _, tt := range tests {
		s := DefaultSettings()
		tt.mutate(&s)

		var validationErr *ValidationError
		if err := s.Validate(); !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError for %s, got %v", tt.field, err)
		}
		if validationErr.Field != tt.field {
			t.Fatalf("expected field %s, got %s", tt.field, validationErr.Field)
		}
	}
}

// TestConfigValidate_RequiresVault는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_RequiresVault(t *testing.T) {
	cfg := &Config{}

	var validationErr *ValidationError
	if err := cfg.Validate(); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "vault" {
		t.Fatalf("expected field vault, got %s", validationErr.Field)
	}
}

// TestConfigValidate_FillsDefaults는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_FillsDefaults(t *testing.T) {
	// 기본값 자동 보정(data dir/log file)과 ~ 확장이 적용되어야 한다.
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	cfg := &Config{Vault: "~/vault"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if cfg.Vault != filepath.Join(home, "vault") {
		t.Fatalf("unexpected vault: %s", cfg.Vault)
	}
	if cfg.DataDir != filepath.Join(home, ".obsidian-file-rename") {
		t.Fatalf("unexpected data dir: %s", cfg.DataDir)
	}
	if cfg.LogFile != filepath.Join(cfg.DataDir, "rename.log") {
		t.Fatalf("unexpected log file: %s", cfg.LogFile)
	}
}

// TestConfigValidate_RejectsInvalidRenameBlock는 테스트 코드 동작을 검증하거나 보조합니다.
func TestConfigValidate_RejectsInvalidRenameBlock(t *testing.T) {
	strategy := types.ConflictStrategy("overwrite")
	cfg := &Config{Vault: "/vault", Rename: Partial{ConflictStrategy: &strategy}}

	var validationErr *ValidationError
	if err := cfg.Validate(); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestLoadFromFile_ReadsYAMLIntoConfig는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReadsYAMLIntoConfig(t *testing.T) {
	// YAML 파일 로드 시 명시 필드가 Config에 반영되어야 한다.
	yamlContent := strings.Join([]string{
		"vault: /data/vault",
		"log_json: true",
		"rename:",
		"  date_format: YYYYMMDD",
		"  separator: \"_\"",
		"  position: append",
		"  avoid_duplicate_prefix: false",
	}, "\n")

	filePath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filePath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(filePath)
	if err != nil {
		t.Fatalf("load from file failed: %v", err)
	}
	if cfg.Vault != "/data/vault" || !cfg.LogJSON {
		t.Fatalf("unexpected vault/log_json: %+v", cfg)
	}

	s := Merge(DefaultSettings(), cfg.Rename)
	if s.DateFormat != "YYYYMMDD" || s.Separator != "_" || s.Position != types.PositionAppend {
		t.Fatalf("unexpected rename settings: %+v", s)
	}
	if s.AvoidDuplicateDate {
		t.Fatal("legacy avoid_duplicate_prefix should be honoured")
	}
	if s.ConflictStrategy != types.ConflictAppendCounter {
		t.Fatalf("unset fields should keep defaults: %+v", s)
	}
}

// TestLoadFromFile_ReturnsReadError는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReturnsReadError(t *testing.T) {
	// 존재하지 않는 설정 파일은 read 에러를 반환해야 한다.
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected read error for missing config file")
	}
}

// TestLoadFromFile_ReturnsYAMLParseError는 테스트 코드 동작을 검증하거나 보조합니다.
func TestLoadFromFile_ReturnsYAMLParseError(t *testing.T) {
	// 잘못된 YAML 문법은 unmarshal 에러를 반환해야 한다.
	filePath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(filePath, []byte("vault: ["), 0644); err != nil {
		t.Fatalf("failed to write broken yaml: %v", err)
	}

	_, err := LoadFromFile(filePath)
	if err == nil {
		t.Fatal("expected yaml parse error")
	}
}

// TestValidationError_ErrorFormat는 테스트 코드 동작을 검증하거나 보조합니다.
func TestValidationError_ErrorFormat(t *testing.T) {
	// ValidationError.Error()는 "field: message" 형식을 반환해야 한다.
	err := (&ValidationError{Field: "position", Message: "is invalid"}).Error()
	if err != "position: is invalid" {
		t.Fatalf("unexpected validation error format: %s", err)
	}
}
