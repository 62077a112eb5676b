package config_test

import (
	"testing"

	"github.com/m-mizutani/ceplookup/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func TestSentry_Configure_Disabled(t *testing.T) {
	cfg := &config.Sentry{}
	gt.False(t, cfg.Enabled())
	gt.NoError(t, cfg.Configure())
}

func TestSentry_Configure_InvalidDSN(t *testing.T) {
	cfg := &config.Sentry{DSN: "not a dsn", Env: "test"}
	gt.True(t, cfg.Enabled())
	gt.Error(t, cfg.Configure())
}
