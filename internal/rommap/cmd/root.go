package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"rommap/internal/analysis"
	"rommap/internal/config"
	"rommap/internal/platform"
	"rommap/internal/report"
	"rommap/internal/rom"
	"rommap/internal/rommap/log"
	"rommap/internal/romx"
	"rommap/internal/textdec"
	"rommap/internal/ui/colorize"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rommap [file]",
		Short: "Map the regions of a cartridge ROM image",
		Long: `Rommap lays a platform's declared header regions over a cartridge image,
follows every pointer into the cartridge window and classifies what it points
at: code, data, text or further pointer tables. Text is decoded as ASCII,
UTF-16LE, Shift-JIS or through a substitution table.`,
		Example: `
# Analyze a GBA image
rommap game.gba

# Decode text through a character table and emit JSON
rommap analyze -t pokemon.tbl -o json game.gba

# Only text and code regions, with an ARM preview, as markdown
rommap analyze -k text,code --disasm -o markdown game.gba
  `,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			log.Setup(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runAnalyze(cmd, args[0])
		},
	}
	root.PersistentFlags().BoolP("debug", "d", false, "Debug")
	root.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	addAnalyzeFlags(root)

	analyze := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a cartridge image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0])
		},
	}
	addAnalyzeFlags(analyze)

	root.AddCommand(analyze, newPlatformsCmd(), newSchemaCmd())
	return root
}

func addAnalyzeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("platform", "p", platform.Default, "Cartridge layout ("+strings.Join(platform.IDs(), ", ")+")")
	f.StringP("format", "o", string(report.FormatTable), "Output format (table, json, markdown)")
	f.StringP("table", "t", "", "Substitution table (.tbl or .yaml)")
	f.StringSliceP("kinds", "k", nil, "Only report these region kinds")
	f.IntP("workers", "w", 0, "Goroutines for scanning and inference (default every CPU)")
	f.Bool("no-discover", false, "Skip pointer-driven discovery")
	f.Bool("table-regions", false, "Record detected pointer tables as regions")
	f.Int("preview", report.DefaultPreview, "Bytes shown for non-text regions")
	f.Bool("disasm", false, "Attach an ARM preview to code regions")
}

// resolveConfig loads the config file and applies explicitly set flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("platform") {
		cfg.Platform, _ = f.GetString("platform")
	}
	if f.Changed("format") {
		cfg.Format, _ = f.GetString("format")
	}
	if f.Changed("table") {
		cfg.Table, _ = f.GetString("table")
	}
	if f.Changed("kinds") {
		cfg.Kinds, _ = f.GetStringSlice("kinds")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("no-discover") {
		skip, _ := f.GetBool("no-discover")
		cfg.Discover = !skip
	}
	if f.Changed("table-regions") {
		cfg.TableRegions, _ = f.GetBool("table-regions")
	}
	if f.Changed("preview") {
		cfg.Preview, _ = f.GetInt("preview")
	}
	if f.Changed("disasm") {
		cfg.Disasm, _ = f.GetBool("disasm")
	}
	return cfg, cfg.Validate()
}

func runAnalyze(cmd *cobra.Command, path string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger := log.Setup(debug)

	p, err := platform.Lookup(cfg.Platform)
	if err != nil {
		return err
	}
	im, err := romx.Open(path, p.MinSize)
	if err != nil {
		return err
	}
	defer im.Close()

	var tbl *textdec.Table
	if cfg.Table != "" {
		if tbl, err = textdec.Load(cfg.Table); err != nil {
			return err
		}
		logger.Debug("Loaded substitution table", "path", cfg.Table, "entries", tbl.Len())
	}

	cat := rom.NewCatalog(p.Regions...)
	var res *analysis.Result
	switch {
	case !cfg.Discover:
	case !p.CanDiscover():
		logger.Warn("Pointer discovery unsupported", "platform", p.ID)
	default:
		eng := analysis.NewEngine(p.Window, analysis.Options{
			Workers:      cfg.Workers,
			TableRegions: cfg.TableRegions,
			Logger:       logger,
		})
		if res, err = eng.Discover(cmd.Context(), im, cat); err != nil {
			return err
		}
	}

	kinds, _ := cfg.KindFilter()
	rep := report.Build(im, p, cat, res, report.Options{
		Table:   tbl,
		Preview: cfg.Preview,
		Kinds:   kinds,
		Disasm:  cfg.Disasm,
	})
	format, _ := report.ParseFormat(cfg.Format)

	out := cmd.OutOrStdout()
	ro := report.RenderOptions{Color: isTerminal(out) && colorize.Enabled()}
	if f, ok := out.(*os.File); ok && ro.Color {
		if w, _, err := term.GetSize(f.Fd()); err == nil {
			ro.Width = w
		}
	}
	return report.Write(out, rep, format, ro)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// Execute runs the CLI. Output that is not a terminal bypasses fang so no
// styling reaches pipes.
func Execute() {
	root := newRootCmd()
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := root.ExecuteContext(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
