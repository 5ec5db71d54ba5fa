package logger

import (
	"log/slog"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/subbot/core/config"
)

func TestSettingsFrom(t *testing.T) {
	cases := []struct {
		name string
		cfg  *coreconfig.Config
		want settings
	}{
		{
			name: "nil config",
			cfg:  nil,
			want: settings{level: slog.LevelInfo, format: formatJSON, num: 1, den: 50},
		},
		{
			name: "dev profile picks kv",
			cfg:  &coreconfig.Config{Logging: coreconfig.LoggingConfig{Profile: "Dev", Level: "debug"}},
			want: settings{level: slog.LevelDebug, format: formatKV, profile: "dev", num: 1, den: 50},
		},
		{
			name: "explicit json wins over profile",
			cfg:  &coreconfig.Config{Logging: coreconfig.LoggingConfig{Profile: "debug", Format: "json", Level: "warning"}},
			want: settings{level: slog.LevelWarn, format: formatJSON, profile: "debug", num: 1, den: 50},
		},
		{
			name: "sampling disabled and file sink",
			cfg:  &coreconfig.Config{Logging: coreconfig.LoggingConfig{DebugSample: "0", Dir: "logs", BotFile: "bot.log"}},
			want: settings{level: slog.LevelInfo, format: formatJSON, profile: "prod", file: filepath.Join("logs", "bot.log")},
		},
		{
			name: "bad sample keeps default",
			cfg:  &coreconfig.Config{Logging: coreconfig.LoggingConfig{DebugSample: "-3/4"}},
			want: settings{level: slog.LevelInfo, format: formatJSON, profile: "prod", num: 1, den: 50},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := settingsFrom(tc.cfg)
			if got.level != tc.want.level || got.format != tc.want.format || got.profile != tc.want.profile {
				t.Fatalf("settings = %+v, want %+v", got, tc.want)
			}
			if got.num != tc.want.num || got.den != tc.want.den || got.file != tc.want.file {
				t.Fatalf("settings = %+v, want %+v", got, tc.want)
			}
			if len(got.keyOrder) == 0 || got.keyOrder[0] != "ts" {
				t.Fatalf("key order = %v", got.keyOrder)
			}
		})
	}
}

func TestSettingsCustomKeyOrder(t *testing.T) {
	got := settingsFrom(&coreconfig.Config{Logging: coreconfig.LoggingConfig{KeysOrder: " event, ts ,,level"}})
	want := []string{"event", "ts", "level"}
	if len(got.keyOrder) != len(want) {
		t.Fatalf("key order = %v, want %v", got.keyOrder, want)
	}
	for i := range want {
		if got.keyOrder[i] != want[i] {
			t.Fatalf("key order = %v, want %v", got.keyOrder, want)
		}
	}
}
