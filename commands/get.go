package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

var GetCmd = Get{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
	},

	area: "",
	file: time.Now().Format("reactivos 2006-01-02T150405.tsv"),
}

type Get struct {
	command
	area string
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the rendered reagents table from a Google Sheets worksheet and stores it to a TSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --url <url> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> [--range <range>] --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a Google Sheets worksheet range to a TSV file. The first row of the range is")
	fmt.Println("  the header row. The default range is the table rendered by the extended layout.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug get --credentials "credentials.json" \`+"\n", APP)
	fmt.Println(`                            --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                            --range "Reactivos!A7:N" \`)
	fmt.Println(`                            --file "reactivos.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'Reactivos!A7:N'. Defaults to '<SHEETS_SHEET>!A7:N'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to 'reactivos <yyyy-mm-dd HHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.configure(options)

	// ... check parameters
	spreadsheet, err := cmd.spreadsheetID()
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.area) == "" {
		sheet := "Sheet1"
		if options.Config != nil && options.Config.Sheets.Sheet != "" {
			sheet = options.Config.Sheets.Sheet
		}

		cmd.area = fmt.Sprintf("'%v'!A7:N", strings.ReplaceAll(sheet, "'", "''"))
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, cmd.area)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ... retrieve
	google, err := cmd.service(ctx)
	if err != nil {
		return err
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet, cmd.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	if len(response.Values) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	// ... save
	dir := filepath.Dir(cmd.file)
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

	if err := sheetToTSV(tmp, response); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	tmp.Close()

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	infof("Retrieved %v to file %s", cmd.area, cmd.file)

	return nil
}
