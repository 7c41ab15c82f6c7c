package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/maptool/internal/config"
	"github.com/Faultbox/maptool/internal/logger"
	"github.com/Faultbox/maptool/internal/rotate"
	"github.com/Faultbox/maptool/pkg/mapfile"
	"github.com/Faultbox/maptool/pkg/rotation"
)

// NewRotateTilesCommand creates the rotate-tiles command.
func NewRotateTilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate-tiles <map-or-dir> [more paths]",
		Short: "Replace directional tile variants with rotated canonical tiles",
		Long: `Rewrite map files so that directional tile variants use their canonical
tile id, with the direction stored as a rotation on each tile.

Directories are scanned recursively for files with the configured
extension. Files with another format version are left untouched.`,
		Example: `  maptool rotate-tiles Resources/Maps
  maptool rotate-tiles -j 4 --keep-going maps/lv624.yml maps/bigred.yml
  maptool rotate-tiles --dry-run --log-level debug Resources/Maps`,
		Args: cobra.ArbitraryArgs,
		RunE: runRotateTiles,
	}

	config.BindRotateFlags(cmd.Flags())
	return cmd
}

func runRotateTiles(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		_, _ = fmt.Fprintln(out, "usage: rotate-tiles <map-or-dir> [more paths]")
		return ErrUsage
	}

	cfg := GetConfig(cmd.Context())

	files, err := mapfile.Collect(args, cfg.Rotate.Extension)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(out, "no map files found")
		return ErrUsage
	}
	logger.Debug("collected map files", zap.Int("count", len(files)))

	p := rotate.NewProcessor(rotation.Default(), rotate.Options{
		Workers:   cfg.Rotate.Workers,
		KeepGoing: cfg.Rotate.KeepGoing,
		DryRun:    cfg.Rotate.DryRun,
	}, logger.Log)

	sum, err := p.Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	if cfg.Rotate.DryRun {
		_, _ = fmt.Fprintf(out, "would update %d map file(s)\n", sum.Updated)
	} else {
		_, _ = fmt.Fprintf(out, "updated %d map file(s)\n", sum.Updated)
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d map file(s) failed", sum.Failed)
	}
	return nil
}
