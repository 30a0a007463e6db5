package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Alia5/abap-api-tools/internal/abap"
	"github.com/Alia5/abap-api-tools/internal/backend"
	"github.com/Alia5/abap-api-tools/internal/codegen/common"
	"github.com/Alia5/abap-api-tools/internal/codegen/frontend"
	"github.com/Alia5/abap-api-tools/internal/codegen/generator"
	"github.com/Alia5/abap-api-tools/internal/configpaths"
	"github.com/Alia5/abap-api-tools/internal/log"
	"github.com/Alia5/abap-api-tools/internal/rfc"
	"github.com/Alia5/abap-api-tools/internal/uiconfig"
	"github.com/Alia5/abap-api-tools/internal/worklist"
)

// DefaultOutput is where get saves annotations and make reads them.
const DefaultOutput = "api"

// Selection holds the flags shared by call, get and make.
type Selection struct {
	Names      []string `arg:"" optional:"" name:"rfm" help:"Function module names"`
	Catalogs   []string `short:"c" name:"catalog" help:"Catalog file with function module names (repeatable; .yaml assumed without extension)"`
	Lang       string   `short:"l" help:"ABAP texts language" default:"en" env:"ABAP_LANG"`
	SortFields bool     `short:"f" name:"sort-fields" help:"Sort structure and table fields by name"`
	Save       bool     `short:"s" help:"Save artifacts instead of printing them"`
}

// Backend configures where metadata is read from.
type Backend struct {
	MetadataDir string `name:"metadata-dir" help:"Root of the metadata dumps, one directory per destination" default:"./metadata" env:"ABAP_METADATA_DIR" type:"path"`
}

// NormalizeOutput applies the output rules: a given folder implies saving
// and relative folders are written with a leading "./".
func NormalizeOutput(output string, save bool) (string, bool) {
	if output == "" {
		if save {
			return "./", true
		}
		return "", false
	}
	if !filepath.IsAbs(output) && !strings.HasPrefix(output, "./") {
		output = "./" + output
	}
	return output, true
}

// worklist builds the worklist of s. Catalog and name errors are
// configuration errors.
func (s Selection) worklist() (*worklist.Worklist, error) {
	wl, err := worklist.Build(s.Catalogs, s.Names)
	if err != nil {
		return nil, err
	}
	if wl.Len() == 0 {
		return nil, errors.New("no function modules given; name them or pass a catalog with -c")
	}
	return wl, nil
}

func (s Selection) request(mode frontend.Mode, target, output string, sig common.Signature) frontend.Request {
	output, save := NormalizeOutput(output, s.Save)
	return frontend.Request{
		Mode:       mode,
		Target:     target,
		Language:   s.Lang,
		Output:     output,
		Save:       save,
		SortFields: s.SortFields,
		Signature:  sig,
	}
}

// runner bundles what a worklist run needs.
type runner struct {
	logger  *slog.Logger
	raw     log.RawLogger
	fetcher rfc.Fetcher
}

func newResolver(logger *slog.Logger) *uiconfig.Resolver {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		logger.Warn("No user configuration directory, using bundled UI configuration", "error", err)
		dir = ""
	}
	return uiconfig.NewResolver(dir)
}

func (r runner) run(s Selection, tmpl frontend.Request) error {
	if _, err := abap.ParseLanguage(tmpl.Language); err != nil {
		return err
	}
	wl, err := s.worklist()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := generator.New(
		backend.New(r.fetcher, r.logger, r.raw),
		frontend.New(newResolver(r.logger), r.logger),
		r.logger,
	)
	report, err := gen.Run(ctx, wl, tmpl)
	if err != nil {
		return err
	}

	failed := len(report.Failed())
	r.logger.Info("Done",
		"mode", tmpl.Mode,
		"entries", len(report.Results),
		"ok", len(report.Results)-failed,
		"failed", failed)
	if err := report.Err(); err != nil {
		return fmt.Errorf("%s: %w", tmpl.Mode, err)
	}
	return nil
}
