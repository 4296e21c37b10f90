package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/uhppoted/reagents-sheets/config"
	"github.com/uhppoted/reagents-sheets/firebase"
	"github.com/uhppoted/reagents-sheets/layout"
	"github.com/uhppoted/reagents-sheets/reagents"
)

const (
	SIMPLE   = "simple"
	EXTENDED = "extended"
)

const DEFAULT_TIMEOUT = 30 * time.Second

// source holds the options shared by the commands that fetch the reagents from Firebase
// and render them with one of the layouts.
type source struct {
	firebase string
	path     string
	timeout  time.Duration
	variant  string
	layout   string
	gap      bool
}

type fetcher interface {
	URL() string
	Fetch(ctx context.Context) (*reagents.Dataset, error)
}

func (s *source) flags(flagset *flag.FlagSet) {
	flagset.StringVar(&s.firebase, "firebase", s.firebase, "Firebase Realtime Database URL e.g. 'https://<project>.firebaseio.com'. Defaults to FIREBASE_URL")
	flagset.StringVar(&s.path, "path", s.path, "Database path of the reagents. Defaults to FIREBASE_PATH")
	flagset.DurationVar(&s.timeout, "timeout", s.timeout, "Firebase request timeout. Defaults to FIREBASE_TIMEOUT")
	flagset.StringVar(&s.variant, "variant", s.variant, "Worksheet layout ('simple' or 'extended')")
	flagset.StringVar(&s.layout, "layout", s.layout, "YAML file with the letterhead for the 'extended' layout")
	flagset.BoolVar(&s.gap, "gap", s.gap, "Leaves a blank row after records with more than one usage entry")
}

func (s *source) configure(cfg *config.Config) {
	if cfg != nil {
		if strings.TrimSpace(s.firebase) == "" {
			s.firebase = cfg.Firebase.URL
		}

		if strings.TrimSpace(s.path) == "" {
			s.path = cfg.Firebase.Path
		}

		if s.timeout == 0 {
			s.timeout = cfg.Firebase.Timeout
		}
	}

	if s.timeout <= 0 {
		s.timeout = DEFAULT_TIMEOUT
	}
}

// client returns a Firebase client for the configured location, checking the settings
// again now that the command line overrides have been applied.
func (s *source) client() (*firebase.Client, error) {
	url := firebase.Location(s.firebase, s.path)
	if url == "" {
		return nil, fmt.Errorf("--firebase is a required option")
	}

	settings := config.Firebase{
		URL:     s.firebase,
		Path:    s.path,
		Timeout: s.timeout,
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return firebase.NewClient(url, s.timeout), nil
}

func (s *source) renderer() (layout.Renderer, error) {
	switch normalise(s.variant) {
	case SIMPLE:
		return &layout.Simple{}, nil

	case EXTENDED, "":
		l := config.DefaultLayout()
		if s.layout != "" {
			v, err := config.LoadLayout(s.layout)
			if err != nil {
				return nil, err
			}

			l = *v
		}

		if s.gap {
			l.GapAfterUsage = true
		}

		return l.Extended(), nil

	default:
		return nil, fmt.Errorf("invalid layout variant '%v' - expected 'simple' or 'extended'", s.variant)
	}
}

func (s *source) extended() bool {
	return normalise(s.variant) != SIMPLE
}

// report applies the error policy of the layout variants: the extended layout logs
// runtime errors and completes normally, the simple layout fails.
func (s *source) report(err error) error {
	if err != nil && s.extended() {
		errorf("%v", err)
		return nil
	}

	return err
}

// fetch retrieves the reagents, returning a nil dataset (and logging a warning) if the
// Firebase location holds no data.
func fetch(ctx context.Context, src fetcher) (*reagents.Dataset, error) {
	debugf("fetching reagents from %v", src.URL())

	dataset, err := src.Fetch(ctx)
	if errors.Is(err, firebase.ErrNoData) {
		warnf("no data at %v", src.URL())
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error fetching reagents (%w)", err)
	}

	debugf("fetched %v records", len(dataset.Records))

	return dataset, nil
}
