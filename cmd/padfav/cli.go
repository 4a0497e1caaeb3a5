package main

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/padfav/padfav/internal/config"
	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/geometry"
	"github.com/padfav/padfav/internal/i18n"
	"github.com/padfav/padfav/internal/logging"
	"github.com/padfav/padfav/internal/store"
	"github.com/padfav/padfav/internal/tui"
	"github.com/padfav/padfav/internal/web"
)

// cliEnv carries the shared dependencies the commands run against.
type cliEnv struct {
	store   *store.Store
	catalog *i18n.Catalog
	cfg     *config.Config
	log     logging.Logger
	dataDir string
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *cliEnv) *cli.App {
	app := &cli.App{
		Name:    "padfav",
		Usage:   "Tablet area favorites store",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(env),
			listCmd(env),
			showCmd(env),
			updateCmd(env),
			removeCmd(env),
			loadCmd(env),
			exportCmd(env),
			importCmd(env),
			countCmd(env),
			webCmd(env),
			panelCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// geometryFlags are shared by add and update.
func geometryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "width", Usage: "Area width in mm"},
		&cli.Float64Flag{Name: "height", Usage: "Area height in mm"},
		&cli.Float64Flag{Name: "x", Usage: "Area center offset X in mm"},
		&cli.Float64Flag{Name: "y", Usage: "Area center offset Y in mm"},
		&cli.Float64Flag{Name: "ratio", Usage: "Width/height ratio hint"},
		&cli.IntFlag{Name: "radius", Usage: "Corner radius percent (0-100)"},
		&cli.Float64Flag{Name: "tablet-w", Usage: "Tablet width in mm"},
		&cli.Float64Flag{Name: "tablet-h", Usage: "Tablet height in mm"},
		&cli.StringFlag{Name: "preset", Usage: "Preset label"},
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title"},
		&cli.StringFlag{Name: "desc", Aliases: []string{"d"}, Usage: "Description"},
	}
}

// addCmd creates the add command.
func addCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a favorite from geometry values",
		Flags: geometryFlags(),
		Action: func(c *cli.Context) error {
			title := c.String("title")
			if title == "" {
				title = favorite.DefaultTitle
			}

			input := store.AddInput{
				Width:       floatFlag(c, "width"),
				Height:      floatFlag(c, "height"),
				X:           floatFlag(c, "x"),
				Y:           floatFlag(c, "y"),
				Ratio:       floatFlag(c, "ratio"),
				Radius:      c.Int("radius"),
				TabletW:     floatFlag(c, "tablet-w"),
				TabletH:     floatFlag(c, "tablet-h"),
				PresetInfo:  c.String("preset"),
				Title:       title,
				Description: c.String("desc"),
			}

			width, height := 0.0, 0.0
			if input.Width != nil {
				width = *input.Width
			}
			if input.Height != nil {
				height = *input.Height
			}
			input.X, input.Y = clampOffset(input.X, input.Y, width, height, input.TabletW, input.TabletH)

			rec, err := env.store.Add(c.Context, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(rec)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List favorites",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Order: date|name|size|modified"},
			&cli.BoolFlag{Name: "json", Usage: "JSON output"},
		},
		Action: func(c *cli.Context) error {
			criterion := favorite.ParseCriterion(env.cfg.DefaultSort)
			if c.IsSet("sort") {
				criterion = favorite.ParseCriterion(c.String("sort"))
			}

			records := favorite.Sort(env.store.GetAll(c.Context), criterion)

			if c.Bool("json") {
				return outputJSON(map[string]any{
					"favorites": records,
					"count":     len(records),
					"sort":      criterion.String(),
				})
			}

			if len(records) == 0 {
				fmt.Println(env.catalog.Translate("favorites.empty"))
				return nil
			}

			decimals := env.cfg.DefaultDecimals()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSIZE\tPRESET\tCREATED")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					favorite.ShortID(rec.ID),
					favorite.DisplayTitle(rec, env.catalog),
					favorite.FormatDimensions(rec, decimals),
					favorite.DisplayPreset(rec, env.catalog),
					formatStamp(rec.CreatedAt),
				)
			}
			return w.Flush()
		},
	}
}

// showCmd creates the show command.
func showCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a favorite by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("favorite id is required"))
			}
			rec, err := env.store.GetByID(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(rec)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of a favorite",
		ArgsUsage: "<id>",
		Flags:     geometryFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("favorite id is required"))
			}
			id := c.Args().First()

			patch := favorite.Patch{
				Width:       floatFlag(c, "width"),
				Height:      floatFlag(c, "height"),
				X:           floatFlag(c, "x"),
				Y:           floatFlag(c, "y"),
				Ratio:       floatFlag(c, "ratio"),
				Radius:      intFlag(c, "radius"),
				TabletW:     floatFlag(c, "tablet-w"),
				TabletH:     floatFlag(c, "tablet-h"),
				PresetInfo:  stringFlag(c, "preset"),
				Title:       stringFlag(c, "title"),
				Description: stringFlag(c, "desc"),
			}

			// When geometry changes, re-clamp the offsets against the merged
			// values so a shrunken tablet cannot leave a stored offset
			// out of bounds.
			if patch.Width != nil || patch.Height != nil || patch.X != nil ||
				patch.Y != nil || patch.TabletW != nil || patch.TabletH != nil {
				rec, err := env.store.GetByID(c.Context, id)
				if err != nil {
					return outputError(err)
				}
				v := mergePatch(rec.ToFormValues(), patch)
				if x, y := clampOffset(v.X, v.Y, v.Width, v.Height, v.TabletW, v.TabletH); x != nil && y != nil {
					patch.X, patch.Y = x, y
				}
			}

			rec, err := env.store.Update(c.Context, id, patch)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(rec)
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a favorite",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("favorite id is required"))
			}
			rec, err := env.store.GetByID(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			if !c.Bool("yes") {
				prompt := fmt.Sprintf("%s %q [y/N]: ",
					env.catalog.Translate("favorites.deleteConfirm"),
					favorite.DisplayTitle(*rec, env.catalog))
				ok, err := confirm(prompt)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if !ok {
					fmt.Println("aborted")
					return nil
				}
			}

			if err := env.store.Remove(c.Context, rec.ID); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"removed": rec.ID})
		},
	}
}

// loadOutput is the load command result: the form values a visualizer
// would apply, with offsets clamped to tablet bounds.
type loadOutput struct {
	ID         string   `json:"id"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Ratio      *float64 `json:"ratio,omitempty"`
	Radius     int      `json:"radius"`
	TabletW    *float64 `json:"tabletW,omitempty"`
	TabletH    *float64 `json:"tabletH,omitempty"`
	PresetInfo string   `json:"presetInfo,omitempty"`
	Clamped    bool     `json:"clamped"`
}

// loadCmd creates the load command.
func loadCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Print a favorite's form values with offsets clamped to tablet bounds",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("favorite id is required"))
			}
			rec, err := env.store.GetByID(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			v := rec.ToFormValues()
			x, y := clampOffset(v.X, v.Y, v.Width, v.Height, v.TabletW, v.TabletH)
			clamped := (x != nil && v.X != nil && *x != *v.X) ||
				(y != nil && v.Y != nil && *y != *v.Y)

			return outputJSON(loadOutput{
				ID:         rec.ID,
				Width:      v.Width,
				Height:     v.Height,
				X:          x,
				Y:          y,
				Ratio:      v.Ratio,
				Radius:     v.Radius,
				TabletW:    v.TabletW,
				TabletH:    v.TabletH,
				PresetInfo: v.PresetInfo,
				Clamped:    clamped,
			})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export favorites to a JSON envelope file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Export file path (default: <data>/exports/favorites-<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			out, err := env.store.ExportToFile(c.Context, store.ExportFileInput{
				Path: c.String("out"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

// importCmd creates the import command.
func importCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import favorites from an export file",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("import file path is required"))
			}
			result, err := env.store.ImportFromFile(c.Context, store.ImportFileInput{
				Path: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// countCmd creates the count command.
func countCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "Print the number of stored favorites",
		Action: func(c *cli.Context) error {
			return outputJSON(map[string]int{"count": env.store.Count(c.Context)})
		},
	}
}

// webCmd creates the web command.
func webCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the browser panel",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
		},
		Action: func(c *cli.Context) error {
			addr := env.cfg.Web.Addr
			if c.IsSet("addr") {
				addr = c.String("addr")
			}

			srv, err := web.NewServer(web.Options{
				Store:         env.store,
				Catalog:       env.catalog,
				Logger:        env.log,
				Addr:          addr,
				SortCriterion: favorite.ParseCriterion(env.cfg.DefaultSort),
				Decimals:      env.cfg.DefaultDecimals(),
				Version:       Version,
			})
			if err != nil {
				return outputError(err)
			}
			return web.Run(srv, env.log)
		},
	}
}

// panelCmd creates the panel command.
func panelCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "panel",
		Usage: "Open the interactive favorites panel",
		Action: func(c *cli.Context) error {
			// stderr is the panel's screen; logs go to a file instead.
			logPath := filepath.Join(env.dataDir, "padfav.log")
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			defer f.Close()

			log := logging.New(logging.Options{
				Level:  env.cfg.LogLevel,
				Format: env.cfg.LogFormat,
				Output: f,
			})

			return tui.Run(tui.Options{
				Store:         env.store,
				Catalog:       env.catalog,
				Logger:        log,
				SortCriterion: favorite.ParseCriterion(env.cfg.DefaultSort),
				AutosaveDelay: time.Duration(env.cfg.Timings.AutosaveDelayMs) * time.Millisecond,
				Decimals:      env.cfg.DefaultDecimals(),
			})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var fErr *errors.FavError
	if stderrors.As(err, &fErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", fErr.Code, fErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// floatFlag returns the flag value when set, nil otherwise.
func floatFlag(c *cli.Context, name string) *float64 {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Float64(name)
	return &v
}

// intFlag returns the flag value when set, nil otherwise.
func intFlag(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}

// stringFlag returns the flag value when set, nil otherwise. An explicit
// empty value counts as set, so a title can be cleared.
func stringFlag(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// clampOffset clamps a center offset to tablet bounds. Offsets pass
// through unchanged while any part of the geometry is missing.
func clampOffset(x, y *float64, width, height float64, tabletW, tabletH *float64) (*float64, *float64) {
	if x == nil || y == nil || tabletW == nil || tabletH == nil {
		return x, y
	}
	cx, cy := geometry.ConstrainOffset(*x, *y, width, height, *tabletW, *tabletH)
	return &cx, &cy
}

// mergePatch overlays the set fields of patch onto form values.
func mergePatch(v favorite.FormValues, p favorite.Patch) favorite.FormValues {
	if p.Width != nil {
		v.Width = *p.Width
	}
	if p.Height != nil {
		v.Height = *p.Height
	}
	if p.X != nil {
		v.X = p.X
	}
	if p.Y != nil {
		v.Y = p.Y
	}
	if p.Ratio != nil {
		v.Ratio = p.Ratio
	}
	if p.Radius != nil {
		v.Radius = *p.Radius
	}
	if p.TabletW != nil {
		v.TabletW = p.TabletW
	}
	if p.TabletH != nil {
		v.TabletH = p.TabletH
	}
	return v
}

// formatStamp formats an epoch-millisecond stamp as "2006-01-02 15:04" UTC.
func formatStamp(millis int64) string {
	if millis <= 0 {
		return "-"
	}
	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04")
}

// confirm prints a prompt and reads a yes/no answer from stdin.
func confirm(prompt string) (bool, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
