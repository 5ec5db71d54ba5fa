package bootstrap

import (
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/subbot/core/config"
)

func TestRunRequiresConfig(t *testing.T) {
	if _, err := Run(Options{}); err == nil {
		t.Fatal("Run without config should fail")
	}
}

func TestRunUsesLoggerInit(t *testing.T) {
	cfg := &coreconfig.Config{}
	var got *coreconfig.Config
	res, err := Run(Options{Config: cfg, LoggerInit: func(c *coreconfig.Config) error {
		got = c
		return nil
	}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != cfg || res.StartedAt.IsZero() {
		t.Fatalf("logger init saw %p, result %+v", got, res)
	}
}

func TestRunWrapsLoggerError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(Options{Config: &coreconfig.Config{}, LoggerInit: func(*coreconfig.Config) error { return boom }})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}
