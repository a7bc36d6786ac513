// Package config reads the environment. Every setting is optional: with an empty environment, the tools index
// the current directory with the default rules and page.
package config

import (
	"time"

	"gitlab.com/efronlicht/enve"
	"gitlab.com/efronlicht/gameindex/gameindex"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Dir      string // base directory to scan. GAMEINDEX_DIR
	Rules    gameindex.Rules
	Page     gameindex.Page
	LogLevel zapcore.Level // LOG_LEVEL
	Preview  Preview
}

// Preview configures the preview server.
type Preview struct {
	Port                                   int  // PORT
	Regenerate                             bool // PREVIEW_REGENERATE: rebuild the index before serving
	ReadTimeout, WriteTimeout, IdleTimeout time.Duration
}

// FromEnv builds a Config from the environment, falling back to the defaults for anything missing or invalid.
func FromEnv() Config {
	rules, page := gameindex.DefaultRules, gameindex.DefaultPage
	return Config{
		Dir: enve.StringOr("GAMEINDEX_DIR", "."),
		Rules: gameindex.Rules{
			Separator:    enve.StringOr("GAMEINDEX_SEPARATOR", rules.Separator),
			HiddenPrefix: enve.StringOr("GAMEINDEX_HIDDEN_PREFIX", rules.HiddenPrefix),
		},
		Page: gameindex.Page{
			Lang:       enve.StringOr("GAMEINDEX_LANG", page.Lang),
			Title:      enve.StringOr("GAMEINDEX_TITLE", page.Title),
			Heading:    enve.StringOr("GAMEINDEX_HEADING", page.Heading),
			Stylesheet: enve.StringOr("GAMEINDEX_STYLESHEET", page.Stylesheet),
			Footer:     enve.StringOr("GAMEINDEX_FOOTER", page.Footer),
		},
		LogLevel: enve.FromTextOr[zapcore.Level]("LOG_LEVEL", zapcore.InfoLevel),
		Preview: Preview{
			Port:         enve.IntOr("PORT", 8000),
			Regenerate:   enve.BoolOr("PREVIEW_REGENERATE", true),
			ReadTimeout:  enve.DurationOr("READ_TIMEOUT", 2*time.Second),
			WriteTimeout: enve.DurationOr("WRITE_TIMEOUT", 5*time.Second),
			IdleTimeout:  enve.DurationOr("IDLE_TIMEOUT", time.Minute),
		},
	}
}
