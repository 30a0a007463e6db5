package cmd

import (
	"log/slog"

	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/codegen/frontend"
	"github.com/Alia5/abap-api-tools/internal/log"
	"github.com/Alia5/abap-api-tools/internal/rfc"
)

type Call struct {
	Dest      string `arg:"" name:"dest" help:"Backend destination"`
	Selection `embed:""`
	Backend   `embed:""`
	Output    string `short:"o" help:"Output folder (implies --save)" env:"ABAP_CALL_OUTPUT"`
}

// Run is called by Kong when the call command is executed.
func (c *Call) Run(logger *slog.Logger, rawLogger log.RawLogger, sig common.Signature) error {
	logger.Debug("Generating call templates", "dest", c.Dest, "metadata", c.MetadataDir)
	r := runner{logger: logger, raw: rawLogger, fetcher: rfc.NewDirFetcher(c.MetadataDir)}
	return r.run(c.Selection, c.Selection.request(frontend.ModeCall, c.Dest, c.Output, sig))
}
