package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhppoted/reagents-sheets/layout"
	"github.com/uhppoted/reagents-sheets/sink"
)

var RenderCmd = Render{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	},

	source: source{
		variant: EXTENDED,
	},
}

type Render struct {
	command
	source
	sheet string
}

// target is a worksheet sink that applies the buffered operations on Flush.
type target interface {
	layout.Sink
	Flush(ctx context.Context) error
}

func (cmd *Render) Name() string {
	return "render"
}

func (cmd *Render) Description() string {
	return "Fetches the reagents from Firebase and renders them to a Google Sheets worksheet"
}

func (cmd *Render) Usage() string {
	return "--firebase <url> --url <url> [--sheet <name>] [--variant simple|extended]"
}

func (cmd *Render) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] render [options] --firebase <URL> --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Fetches the reagent records from a Firebase Realtime Database and rewrites a Google Sheets")
	fmt.Println("  worksheet with them. The worksheet is cleared on every run.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug render --firebase "https://lab.firebaseio.com" \`+"\n", APP)
	fmt.Println(`                               --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                               --sheet "Reactivos"`)
	fmt.Println()
}

func (cmd *Render) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("render")

	cmd.source.flags(flagset)
	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet name. Defaults to SHEETS_SHEET")

	return flagset
}

func (cmd *Render) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.command.configure(options)
	cmd.source.configure(options.Config)

	if cmd.sheet == "" && options.Config != nil {
		cmd.sheet = options.Config.Sheets.Sheet
	}

	// ... check parameters
	spreadsheet, err := cmd.spreadsheetID()
	if err != nil {
		return err
	}

	if cmd.sheet == "" {
		return fmt.Errorf("--sheet is a required option")
	}

	client, err := cmd.client()
	if err != nil {
		return err
	}

	renderer, err := cmd.renderer()
	if err != nil {
		return err
	}

	debugf("Spreadsheet - ID:%s  sheet:%s  variant:%s", spreadsheet, cmd.sheet, cmd.variant)

	// ... fetch and render
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	open := func(ctx context.Context) (target, error) {
		google, err := cmd.service(ctx)
		if err != nil {
			return nil, err
		}

		s, err := getSpreadsheet(ctx, google, spreadsheet)
		if err != nil {
			return nil, err
		}

		sheet, err := getSheet(s, cmd.sheet)
		if err != nil {
			return nil, err
		}

		return sink.NewGoogle(google, spreadsheet, sheet.Properties), nil
	}

	return cmd.report(render(ctx, client, renderer, open))
}

// render fetches the dataset and writes it to the target worksheet. The target is only
// opened once there is data, so that a Firebase location without data leaves the
// worksheet untouched.
func render(ctx context.Context, src fetcher, renderer layout.Renderer, open func(context.Context) (target, error)) error {
	dataset, err := fetch(ctx, src)
	if err != nil {
		return err
	} else if dataset == nil {
		return nil
	}

	t, err := open(ctx)
	if err != nil {
		return err
	}

	if err := renderer.Render(t, dataset); err != nil {
		return fmt.Errorf("error rendering worksheet (%w)", err)
	}

	if err := t.Flush(ctx); err != nil {
		return err
	}

	infof("rendered %v records from %v", len(dataset.Records), src.URL())

	return nil
}
