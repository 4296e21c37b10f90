package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uhppoted/reagents-sheets/layout"
)

// Layout holds the optional overrides for the extended worksheet layout. Values missing
// from the file keep their defaults.
//
// Example:
//
//	letterhead:
//	  organisation: CONTROL UNION
//	  code: Código PL-125
//	  revision: "1"
//	gap-after-usage: true
type Layout struct {
	Letterhead    layout.Letterhead `yaml:"letterhead"`
	GapAfterUsage bool              `yaml:"gap-after-usage"`
}

func DefaultLayout() Layout {
	return Layout{
		Letterhead: layout.DefaultLetterhead,
	}
}

func LoadLayout(path string) (*Layout, error) {
	cfg := DefaultLayout()

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("parse layout %v: %w", path, err)
	}

	return &cfg, nil
}

// Extended returns the extended renderer configured with this layout.
func (l Layout) Extended() *layout.Extended {
	return &layout.Extended{
		Letterhead:    l.Letterhead,
		GapAfterUsage: l.GapAfterUsage,
	}
}
