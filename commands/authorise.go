package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var AuthoriseCmd = Authorise{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	},
}

type Authorise struct {
	command
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises access to the Google Sheets worksheet"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Authorises access to Google Sheets and caches the OAuth2 token in the tokens directory.")
	fmt.Println("  Not required for service account credentials.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s authorise --credentials "credentials.json"`+"\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	return cmd.flagset("authorise")
}

func (cmd *Authorise) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.configure(options)

	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tokens := tokensFile(cmd.credentials, cmd.tokensDir())
	if err := authenticate(ctx, cmd.credentials, SHEETS, tokens); err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	infof("saved OAuth2 token to %v", tokens)

	return nil
}

// authenticate runs the OAuth2 authorization code flow with a loopback redirect: the
// consent page redirects to a temporary HTTP listener on localhost, which receives the
// authorization code.
func authenticate(ctx context.Context, credentials, scope, tokens string) error {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return err
	}

	if isServiceAccount(b) {
		return fmt.Errorf("%v is a service account credentials file and does not need to be authorised", credentials)
	}

	config, err := google.ConfigFromJSON(b, scope)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}

	defer listener.Close()

	config.RedirectURL = fmt.Sprintf("http://%v/", listener.Addr())

	state := uuid.NewString()
	authorised := make(chan string, 1)
	failed := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		if rq.FormValue("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}

		if msg := rq.FormValue("error"); msg != "" {
			fmt.Fprintf(w, "Authorisation declined (%v). You can close this window.\n", msg)
			notify(failed, fmt.Errorf("authorisation declined (%v)", msg))
			return
		}

		if code := rq.FormValue("code"); code != "" {
			fmt.Fprintln(w, "Authorised. You can close this window.")
			notify(authorised, code)
		}
	})

	srv := &http.Server{
		Handler: mux,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			notify(failed, err)
		}
	}()

	defer srv.Shutdown(context.Background())

	fmt.Println()
	fmt.Println("  Open the following link in your browser to authorise access to Google Sheets:")
	fmt.Println()
	fmt.Printf("  %v\n", config.AuthCodeURL(state, oauth2.AccessTypeOffline))
	fmt.Println()

	select {
	case <-ctx.Done():
		return ctx.Err()

	case err := <-failed:
		return err

	case code := <-authorised:
		token, err := config.Exchange(ctx, code)
		if err != nil {
			return fmt.Errorf("unable to retrieve token (%w)", err)
		}

		return saveToken(tokens, token)
	}
}

func notify[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
