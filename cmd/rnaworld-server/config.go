package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/daniacca/rnaworld/internal/rna"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr             string
	DefaultEnvID     string
	ParamsFile       string
	TickInterval     time.Duration
	Speed            float64
	Autostart        bool
	NotifyEveryTicks int
	LogLevel         string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads server configuration from CLI flags and environment
// variables. A flag wins over its environment variable, which wins over the
// default.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "RNAWORLD_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "env-id",
			envVarName:  "RNAWORLD_ENV_ID",
			defaultVal:  "default",
			description: "ID of the environment created at startup",
			setter:      func(c *ServerConfig, v string) { c.DefaultEnvID = v },
		},
		{
			flagName:    "params-file",
			envVarName:  "RNAWORLD_PARAMS_FILE",
			defaultVal:  "",
			description: "optional YAML params file layered over the built-in defaults",
			setter:      func(c *ServerConfig, v string) { c.ParamsFile = v },
		},
		{
			flagName:    "tick-interval-ms",
			envVarName:  "RNAWORLD_TICK_INTERVAL_MS",
			defaultVal:  "33",
			description: "base delay between ticks in milliseconds at speed 1.0",
			setter: func(c *ServerConfig, v string) {
				if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
					c.TickInterval = time.Duration(ms) * time.Millisecond
				} else {
					slog.Warn("invalid tick-interval-ms, using default", "value", v, "default", rna.DefaultTickInterval)
					c.TickInterval = rna.DefaultTickInterval
				}
			},
		},
		{
			flagName:    "speed",
			envVarName:  "RNAWORLD_SPEED",
			defaultVal:  "1.0",
			description: "initial speed multiplier; 0 keeps the schedule idle",
			setter: func(c *ServerConfig, v string) {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					c.Speed = f
				} else {
					slog.Warn("invalid speed, using default", "value", v, "default", 1.0)
					c.Speed = 1.0
				}
			},
		},
		{
			flagName:    "autostart",
			envVarName:  "RNAWORLD_AUTOSTART",
			defaultVal:  "true",
			description: "start ticking the default environment at startup",
			setter: func(c *ServerConfig, v string) {
				if b, err := strconv.ParseBool(v); err == nil {
					c.Autostart = b
				} else {
					slog.Warn("invalid autostart, using default", "value", v, "default", true)
					c.Autostart = true
				}
			},
		},
		{
			flagName:    "notify-every-ticks",
			envVarName:  "RNAWORLD_NOTIFY_EVERY_TICKS",
			defaultVal:  "1",
			description: "publish a tick event to websocket clients every N ticks",
			setter: func(c *ServerConfig, v string) {
				if n, err := strconv.Atoi(v); err == nil && n >= 1 {
					c.NotifyEveryTicks = n
				} else {
					slog.Warn("invalid notify-every-ticks, using default", "value", v, "default", 1)
					c.NotifyEveryTicks = 1
				}
			},
		},
		{
			flagName:    "log-level",
			envVarName:  "RNAWORLD_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	flag.Parse()

	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}

// bootstrapEnvironment creates the startup environment from the params file
// and starts it when autostart is set.
func bootstrapEnvironment(srv *Server, cfg ServerConfig) (*rna.Environment, error) {
	params, err := rna.LoadParamsFile(cfg.ParamsFile)
	if err != nil {
		return nil, err
	}
	srv.SetBaseParams(params)

	env, err := srv.createEnvironment(rna.EnvironmentID(cfg.DefaultEnvID), params)
	if err != nil {
		return nil, err
	}

	env.SetSpeed(cfg.Speed)
	if cfg.Autostart {
		env.Run(cfg.TickInterval)
	}
	return env, nil
}
