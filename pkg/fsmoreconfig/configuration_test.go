package fsmoreconfig

import (
	"path/filepath"
	"testing"

	"github.com/fsmore/fsmore/pkg/logging"
)

func TestLoadConfigurationMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")
	configuration, err := LoadConfiguration(path, logging.NewLogger(logging.LevelError))
	if err != nil {
		t.Fatal(err)
	}
	if configuration.Copy.Destination.Kind != "disallow-existing" {
		t.Errorf("expected default destination kind, got %q", configuration.Copy.Destination.Kind)
	}
}

func TestSaveAndLoadConfigurationRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsmore.yml")
	configuration := Default()
	configuration.Copy.Symlinks = "follow"
	configuration.Copy.ReadBufferSize = 128 * 1024

	if err := SaveConfiguration(path, configuration); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfiguration(path, logging.NewLogger(logging.LevelError))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Copy.Symlinks != "follow" {
		t.Errorf("expected symlinks 'follow', got %q", loaded.Copy.Symlinks)
	}
	if loaded.Copy.ReadBufferSize != 128*1024 {
		t.Errorf("expected read buffer size 128KiB, got %d", loaded.Copy.ReadBufferSize)
	}
}

func TestByteSizeUnmarshalsHumanFriendlyText(t *testing.T) {
	var size ByteSize
	if err := size.UnmarshalText([]byte("4MiB")); err != nil {
		t.Fatal(err)
	}
	if size != 4*1024*1024 {
		t.Errorf("expected 4MiB in bytes, got %d", size)
	}
}
