// Package config defines the command line of the abap binary. Every flag
// may also come from a JSON, YAML or TOML configuration file.
package config

import (
	"github.com/Alia5/abap-api-tools/internal/cmd"

	"github.com/alecthomas/kong"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"ABAP_LOG_LEVEL"`
	File    string `help:"Also write the log to this file" env:"ABAP_LOG_FILE"`
	RawFile string `help:"Write raw metadata payloads to this file" env:"ABAP_LOG_RAW_FILE"`
}

type CLI struct {
	Log     Log              `embed:"" prefix:"log."`
	Debug   bool             `short:"d" help:"Debug output, same as --log.level=debug"`
	Config  string           `help:"Configuration file (json, yaml or toml)" env:"ABAP_CONFIG" type:"path"`
	Version kong.VersionFlag `short:"v" help:"Print the version and exit"`

	Call      cmd.Call          `cmd:"" help:"Generate call templates for function modules"`
	Get       cmd.Get           `cmd:"" help:"Save annotations of function modules"`
	Make      cmd.Make          `cmd:"" help:"Generate UI scaffolding from saved annotations"`
	Cp        cmd.Cp            `cmd:"" help:"Copy the bundled UI configuration to the user configuration directory"`
	Rm        cmd.Rm            `cmd:"" help:"Remove the local UI configuration"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
}

// LogLevel is the effective log level: --debug raises anything above debug
// to debug.
func (c *CLI) LogLevel() string {
	if c.Debug && c.Log.Level != "trace" {
		return "debug"
	}
	return c.Log.Level
}
