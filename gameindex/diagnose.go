package gameindex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/net/html"
)

// DirDiagnostic describes one directory under the base directory.
type DirDiagnostic struct {
	Name         string
	HasSeparator bool
	Hidden       bool
	Verdict      Verdict
	// only filled in for qualified directories.
	HasIndex  bool
	Title     string // <title> of the game's index.html, if any
	HasStyle  bool   // style.css
	HasScript bool   // script.js
}

// The files a game directory usually carries besides its index.
const (
	StyleName  = "style.css"
	ScriptName = "script.js"
)

// Report is the output of Diagnose.
type Report struct {
	Base    string
	Entries int // everything under Base, files included
	Dirs    []DirDiagnostic
}

// Qualified returns the number of directories that would appear on the index.
func (rep Report) Qualified() (n int) {
	for _, d := range rep.Dirs {
		if d.Verdict == Qualified {
			n++
		}
	}
	return n
}

// Diagnose lists dir and explains, directory by directory, whether it would make it onto the index.
// It never writes anything.
func Diagnose(dir string, r Rules) (Report, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Report{}, fmt.Errorf("resolve base dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Report{}, fmt.Errorf("read base dir: %w", err)
	}
	rep := Report{Base: dir, Entries: len(entries)}
	for _, e := range entries {
		v, err := r.classifyEntry(dir, e)
		if err != nil {
			return Report{}, err
		}
		if v == NotDir {
			continue
		}
		name := e.Name()
		d := DirDiagnostic{
			Name:         name,
			HasSeparator: r.HasSeparator(name),
			Hidden:       r.IsHidden(name),
			Verdict:      v,
		}
		if d.Verdict == Qualified {
			gameDir := filepath.Join(dir, name)
			if d.HasIndex, d.Title, err = inspectIndex(filepath.Join(gameDir, IndexName)); err != nil {
				return Report{}, err
			}
			if d.HasStyle, err = fileExists(filepath.Join(gameDir, StyleName)); err != nil {
				return Report{}, err
			}
			if d.HasScript, err = fileExists(filepath.Join(gameDir, ScriptName)); err != nil {
				return Report{}, err
			}
		}
		rep.Dirs = append(rep.Dirs, d)
	}
	return rep, nil
}

// inspectIndex reads a game's index.html and pulls out its title.
func inspectIndex(path string) (exists bool, title string, err error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, "", nil
	} else if err != nil {
		return false, "", fmt.Errorf("inspect %s: %w", path, err)
	}
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return true, "", fmt.Errorf("parse %s: %w", path, err)
	}
	title, _ = findTitle(doc)
	return true, title, nil
}

// fileExists reports whether path is a regular file (or a symlink to one). missing is not an error.
func fileExists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("inspect %s: %w", path, err)
	}
	return fi.Mode().IsRegular(), nil
}

// findTitle returns the text of the first <title> element under n.
func findTitle(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild == nil {
			return "", true
		}
		return strings.TrimSpace(n.FirstChild.Data), true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title, ok := findTitle(c); ok {
			return title, true
		}
	}
	return "", false
}

// Print rep as a table.
func (rep Report) Print(w io.Writer) error {
	fmt.Fprintf(w, "base: %s\n", rep.Base)
	fmt.Fprintf(w, "entries: %d, directories: %d, qualified: %d\n\n", rep.Entries, len(rep.Dirs), rep.Qualified())

	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSEPARATOR\tHIDDEN\tVERDICT\tINDEX\tSTYLE\tSCRIPT\tTITLE")
	for _, d := range rep.Dirs {
		index, style, script, title := "-", "-", "-", "-"
		if d.Verdict == Qualified {
			index, style, script = yesNo(d.HasIndex), yesNo(d.HasStyle), yesNo(d.HasScript)
			if d.Title != "" {
				title = d.Title
			}
		}
		fmt.Fprintf(tw, "%s\t%t\t%t\t%s\t%s\t%s\t%s\t%s\n", d.Name, d.HasSeparator, d.Hidden, d.Verdict, index, style, script, title)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
