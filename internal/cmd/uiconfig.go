package cmd

import (
	"context"
	"log/slog"

	"github.com/Alia5/abap-api-tools/internal/configpaths"
	"github.com/Alia5/abap-api-tools/internal/uiconfig"
)

// Cp installs the bundled configuration of a UI framework into the user
// configuration directory, where it can be customized.
type Cp struct {
	UI string `arg:"" name:"ui" help:"UI framework: ui5 or fundamental-ngx" enum:"ui5,fundamental-ngx"`
}

// Run is called by Kong when the cp command is executed.
func (c *Cp) Run(logger *slog.Logger) error {
	r, err := userResolver()
	if err != nil {
		return err
	}
	paths, err := r.Install(context.Background(), c.UI)
	for _, p := range paths {
		logger.Debug("Installed", "path", p)
	}
	if err != nil {
		return err
	}
	logger.Info("Local configuration set: "+c.UI, "dir", r.UserDir)
	return nil
}

// Rm removes the user copy of a UI framework configuration. Removing a
// configuration that is not there is not an error.
type Rm struct {
	UI string `arg:"" name:"ui" help:"UI framework: ui5 or fundamental-ngx" enum:"ui5,fundamental-ngx"`
}

// Run is called by Kong when the rm command is executed.
func (c *Rm) Run(logger *slog.Logger) error {
	r, err := userResolver()
	if err != nil {
		return err
	}
	paths, err := r.Remove(c.UI)
	for _, p := range paths {
		logger.Debug("Removed", "path", p)
	}
	if err != nil {
		return err
	}
	logger.Info("Local configuration removed: "+c.UI, "dir", r.UserDir)
	return nil
}

func userResolver() (*uiconfig.Resolver, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	return uiconfig.NewResolver(dir), nil
}
