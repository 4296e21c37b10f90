package commands

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/reagents-sheets/config"
)

const APP = "reagents-sheets"

const SHEETS = "https://www.googleapis.com/auth/spreadsheets"

// Options holds the global command line options and the configuration loaded from the
// environment.
type Options struct {
	Config *config.Config
	Debug  bool
}

type command struct {
	workdir     string
	credentials string
	tokens      string
	url         string
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

func (cmd *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (tokens, etc)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the 'credentials.json' file. Defaults to SHEETS_CREDENTIALS")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Directory for the authorisation tokens. Defaults to <workdir>/.google")
	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL. Defaults to SHEETS_URL")

	return flagset
}

// configure fills in the options not set on the command line from the environment
// configuration.
func (cmd *command) configure(options *Options) {
	if cfg := options.Config; cfg != nil {
		if strings.TrimSpace(cfg.Sheets.Credentials) != "" && cmd.credentials == DEFAULT_CREDENTIALS {
			cmd.credentials = cfg.Sheets.Credentials
		}

		if strings.TrimSpace(cmd.url) == "" {
			cmd.url = cfg.Sheets.URL
		}
	}
}

func (cmd *command) spreadsheetID() (string, error) {
	if strings.TrimSpace(cmd.url) == "" {
		return "", fmt.Errorf("--url is a required option")
	}

	match := spreadsheetURL.FindStringSubmatch(strings.TrimSpace(cmd.url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

func (cmd *command) tokensDir() string {
	if cmd.tokens != "" {
		return cmd.tokens
	}

	return filepath.Join(cmd.workdir, ".google")
}

func (cmd *command) service(ctx context.Context) (*sheets.Service, error) {
	if strings.TrimSpace(cmd.credentials) == "" {
		return nil, fmt.Errorf("--credentials is a required option")
	}

	client, err := authorize(ctx, cmd.credentials, SHEETS, cmd.tokensDir())
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return google, nil
}

func getSpreadsheet(ctx context.Context, google *sheets.Service, id string) (*sheets.Spreadsheet, error) {
	spreadsheet, err := google.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	return spreadsheet, nil
}

// getSheet finds a worksheet by title, ignoring case and surrounding whitespace.
func getSheet(spreadsheet *sheets.Spreadsheet, name string) (*sheets.Sheet, error) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && normalise(sheet.Properties.Title) == normalise(name) {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("unable to identify worksheet '%s'", name)
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flagset.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
	}

	fmt.Println("  Options:")
	fmt.Println()
	fmt.Println("    --debug  Displays internal information for diagnosing errors")
	fmt.Println("    --env    .env file with the environment configuration. Defaults to .env")
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func debugf(format string, args ...any) {
	slog.Debug(fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	slog.Info(fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	slog.Warn(fmt.Sprintf(format, args...))
}

func errorf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
}
