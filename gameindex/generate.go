package gameindex

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// IndexName is the file Generate writes into the base directory, and the file each game directory is expected to serve.
const IndexName = "index.html"

// Result of a successful Generate.
type Result struct {
	Path  string // absolute path of the written index
	Games []Game
	Size  int // bytes written
}

// Generate scans dir and (re)writes dir/index.html with a link to every game.
// The page is rendered in full before anything touches the disk and then swapped in with a rename,
// so a failed run leaves the previous index, if any, as it was.
func Generate(dir string, r Rules, p Page) (Result, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Result{}, fmt.Errorf("resolve base dir: %w", err)
	}
	games, err := Scan(dir, r)
	if err != nil {
		return Result{}, err
	}
	b := Render(p, games)
	if err := writeFileAtomic(dir, IndexName, b, 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", IndexName, err)
	}
	return Result{Path: filepath.Join(dir, IndexName), Games: games, Size: len(b)}, nil
}

// writeFileAtomic writes data to a temp file next to dir/name and renames it into place.
// The temp file lives in the same directory so the rename stays on one filesystem.
func writeFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName) // no-op once renamed
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return err
	}
	_ = syncDir(dir)
	return nil
}

// syncDir flushes the rename to disk. best-effort: windows doesn't support fsync on directories.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
