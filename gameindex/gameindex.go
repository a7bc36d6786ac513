// Package gameindex finds game directories under a base directory and builds the static index page that links to them.
//
// A game directory is an immediate subdirectory whose name contains a separator (by default "-") and doesn't
// start with a hidden-entry marker (by default "."). The part of the name before the first separator is the
// game's title; the part after it is the author.
//
//	snake-GG          => snake (GG)
//	space-invaders-GG => space (invaders-GG)
//	pong-             => pong
package gameindex

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Rules decide which directory names are games and how to split them.
type Rules struct {
	Separator    string // splits title from author. must not be empty.
	HiddenPrefix string // names starting with this are skipped. empty means nothing is hidden.
}

// DefaultRules match the layout of the retro-games repository: snake-GG, tetris-GG, ...
var DefaultRules = Rules{Separator: "-", HiddenPrefix: "."}

// Verdict is the result of classifying a directory entry.
type Verdict uint8

const (
	Qualified   Verdict = iota // a game directory
	NotDir                     // a file, or a symlink that doesn't resolve to a directory
	Hidden                     // starts with the hidden prefix
	NoSeparator                // a directory without the separator in its name
)

func (v Verdict) String() string {
	switch v {
	case Qualified:
		return "qualified"
	case NotDir:
		return "not-dir"
	case Hidden:
		return "hidden"
	case NoSeparator:
		return "no-separator"
	default:
		return fmt.Sprintf("Verdict(%d)", uint8(v))
	}
}

// HasSeparator reports whether name contains the separator.
func (r Rules) HasSeparator(name string) bool {
	return r.Separator != "" && strings.Contains(name, r.Separator)
}

// IsHidden reports whether name starts with the hidden prefix.
func (r Rules) IsHidden(name string) bool {
	return r.HiddenPrefix != "" && strings.HasPrefix(name, r.HiddenPrefix)
}

// Classify the directory named name. It never returns NotDir: it has no way to know.
// Hidden wins over NoSeparator, so ".git" is Hidden.
func (r Rules) Classify(name string) Verdict {
	switch {
	case r.IsHidden(name):
		return Hidden
	case !r.HasSeparator(name):
		return NoSeparator
	default:
		return Qualified
	}
}

// Game is a link on the index page.
type Game struct {
	Slug   string // directory name, as found on disk. the link target.
	Title  string
	Author string // may be empty
}

// Game splits slug on the first separator.
//
// A slug that starts with the separator, like "-XY", would split into an empty title and author "XY".
// Instead, Game uses the whole slug as the title and leaves Author empty, so the index shows "-XY"
// rather than a link with no text. This differs from a plain split on purpose.
func (r Rules) Game(slug string) Game {
	title, author, _ := strings.Cut(slug, r.Separator)
	if title == "" {
		return Game{Slug: slug, Title: slug}
	}
	return Game{Slug: slug, Title: title, Author: author}
}

// DisplayName is "title (author)", or just "title" when there's no author.
func (g Game) DisplayName() string {
	if g.Author == "" {
		return g.Title
	}
	return g.Title + " (" + g.Author + ")"
}

// Href is the game's page, relative to the index.
func (g Game) Href() string { return g.Slug + "/" + IndexName }

// Scan the immediate children of dir for game directories, returning them sorted by slug.
func Scan(dir string, r Rules) ([]Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read base dir: %w", err)
	}
	var slugs []string
	for _, e := range entries {
		v, err := r.classifyEntry(dir, e)
		if err != nil {
			return nil, err
		}
		if v == Qualified {
			slugs = append(slugs, e.Name())
		}
	}
	slices.Sort(slugs) // ReadDir already sorts, but that's an implementation detail of os.
	games := make([]Game, len(slugs))
	for i, s := range slugs {
		games[i] = r.Game(s)
	}
	return games, nil
}

// classifyEntry is Classify for an entry of dir, which may not be a directory at all.
func (r Rules) classifyEntry(dir string, e fs.DirEntry) (Verdict, error) {
	isDir, err := resolvesToDir(dir, e)
	switch {
	case err != nil:
		return 0, err
	case !isDir:
		return NotDir, nil
	default:
		return r.Classify(e.Name()), nil
	}
}

// resolvesToDir reports whether e is a directory, following symlinks.
// a dangling symlink is not a directory, not an error.
func resolvesToDir(dir string, e fs.DirEntry) (bool, error) {
	if e.IsDir() {
		return true, nil
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	switch {
	case err == nil:
		return fi.IsDir(), nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", e.Name(), err)
	}
}
