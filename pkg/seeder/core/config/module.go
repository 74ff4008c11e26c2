package config

import "go.uber.org/fx"

// Module is an Fx module that provides *Config.
var Module = fx.Options(
	fx.Provide(NewConfigProvider),
)
