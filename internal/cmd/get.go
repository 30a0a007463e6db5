package cmd

import (
	"log/slog"

	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/codegen/frontend"
	"github.com/Alia5/abap-api-tools/internal/log"
	"github.com/Alia5/abap-api-tools/internal/rfc"
)

type Get struct {
	Dest      string `arg:"" name:"dest" help:"Backend destination"`
	Selection `embed:""`
	Backend   `embed:""`
	Output    string `short:"o" help:"Output folder" default:"api" env:"ABAP_OUTPUT"`
}

// Run is called by Kong when the get command is executed.
func (g *Get) Run(logger *slog.Logger, rawLogger log.RawLogger, sig common.Signature) error {
	logger.Debug("Retrieving annotations", "dest", g.Dest, "metadata", g.MetadataDir)
	r := runner{logger: logger, raw: rawLogger, fetcher: rfc.NewDirFetcher(g.MetadataDir)}
	return r.run(g.Selection, g.Selection.request(frontend.ModeGet, g.Dest, g.Output, sig))
}
