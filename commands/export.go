package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/uhppoted/reagents-sheets/reagents"
	"github.com/uhppoted/reagents-sheets/sink"
)

var ExportCmd = Export{
	source: source{
		variant: EXTENDED,
	},

	sheet: "Reactivos",
	file:  time.Now().Format("reactivos 2006-01-02T150405.xlsx"),
}

// Export renders the reagents to a local file instead of a Google Sheets worksheet.
type Export struct {
	source
	sheet string
	file  string
}

func (cmd *Export) Name() string {
	return "export"
}

func (cmd *Export) Description() string {
	return "Fetches the reagents from Firebase and saves them to an Excel workbook or TSV file"
}

func (cmd *Export) Usage() string {
	return "--firebase <url> --file <file>"
}

func (cmd *Export) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] export [options] --firebase <URL> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Fetches the reagent records from a Firebase Realtime Database and renders them to a local")
	fmt.Println("  .xlsx workbook, or to a .tsv file with one line per usage entry. TSV files always hold the")
	fmt.Println("  sorted records of the 'extended' layout, so --layout and --gap only apply to workbooks.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s export --firebase "https://lab.firebaseio.com" --file "reactivos.xlsx"`+"\n", APP)
	fmt.Printf(`    %s export --firebase "https://lab.firebaseio.com" --file "reactivos.tsv"`+"\n", APP)
	fmt.Println()
}

func (cmd *Export) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("export", flag.ExitOnError)

	cmd.source.flags(flagset)
	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet name for .xlsx files")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Output file (.xlsx or .tsv). Defaults to 'reactivos <yyyy-mm-dd HHmmss>.xlsx'")

	return flagset
}

func (cmd *Export) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.configure(options.Config)

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	format := strings.ToLower(filepath.Ext(cmd.file))
	if format != ".xlsx" && format != ".tsv" {
		return fmt.Errorf("unsupported file type '%v' - expected .xlsx or .tsv", cmd.file)
	}

	client, err := cmd.client()
	if err != nil {
		return err
	}

	var write func(io.Writer, *reagents.Dataset) error

	switch format {
	case ".tsv":
		if !cmd.extended() {
			return fmt.Errorf("the '%v' layout cannot be exported to a TSV file", cmd.variant)
		}

		write = func(w io.Writer, dataset *reagents.Dataset) error {
			if err := sink.TSV(w, dataset); err != nil {
				return fmt.Errorf("error creating TSV file (%w)", err)
			}

			return nil
		}

	default:
		renderer, err := cmd.renderer()
		if err != nil {
			return err
		}

		write = func(w io.Writer, dataset *reagents.Dataset) error {
			xlsx := sink.NewXLSX(cmd.sheet)
			if err := renderer.Render(xlsx, dataset); err != nil {
				return fmt.Errorf("error rendering workbook (%w)", err)
			}

			if err := xlsx.Write(w); err != nil {
				return fmt.Errorf("error creating workbook (%w)", err)
			}

			return nil
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return cmd.report(export(ctx, client, cmd.file, write))
}

// export fetches the dataset and writes it to a temporary file that replaces the output
// file once complete. A Firebase location without data leaves the output file untouched.
func export(ctx context.Context, src fetcher, file string, write func(io.Writer, *reagents.Dataset) error) error {
	dataset, err := fetch(ctx, src)
	if err != nil {
		return err
	} else if dataset == nil {
		return nil
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".reactivos-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := write(tmp, dataset); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		return err
	}

	infof("exported %v records to %v", len(dataset.Records), file)

	return nil
}
