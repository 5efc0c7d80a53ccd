package config

import (
	"os"

	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/client"
	"github.com/aalemi-dev/reqscope/instrument"
	"github.com/aalemi-dev/reqscope/logger"
	"github.com/aalemi-dev/reqscope/metrics"
	"github.com/aalemi-dev/reqscope/transport"
)

// FXModule loads *Config from the file named by REQSCOPE_CONFIG and the
// environment, and provides each package's section.
var FXModule = fx.Module("config",
	fx.Provide(
		func() (*Config, error) { return Load(os.Getenv(PathEnv)) },
		func(c *Config) logger.Config { return c.Logger },
		func(c *Config) client.Config { return c.Client },
		func(c *Config) transport.Config { return c.Transport },
		func(c *Config) instrument.Config { return c.Instrument },
		func(c *Config) metrics.Config { return c.Metrics },
	),
)
