package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/codegen/frontend"
	"github.com/Alia5/abap-api-tools/internal/log"
	"github.com/Alia5/abap-api-tools/internal/rfc"
)

type Make struct {
	UI        string `arg:"" name:"ui" help:"UI framework: ui5 or fundamental-ngx" enum:"ui5,fundamental-ngx"`
	Selection `embed:""`
	Output    string `short:"o" help:"Folder holding the annotations saved by get; scaffolding is written below it" default:"api" env:"ABAP_OUTPUT"`
}

// Run is called by Kong when the make command is executed.
func (m *Make) Run(logger *slog.Logger, rawLogger log.RawLogger, sig common.Signature) error {
	logger.Debug("Generating UI scaffolding", "ui", m.UI, "annotations", m.Output)
	r := runner{logger: logger, raw: rawLogger, fetcher: offline}
	return r.run(m.Selection, m.Selection.request(frontend.ModeMake, m.UI, m.Output, sig))
}

// offline is the fetcher of commands that never contact a backend.
var offline = rfc.FetcherFunc(func(_ context.Context, _, name, _ string) (*rfc.Metadata, error) {
	return nil, fmt.Errorf("%w: %s: no backend in offline mode", abap.ErrDestinationUnreachable, name)
})
