// Package meta describes the running process. It's too heavyweight to attach to every log line, so the tools log it
// once at startup ("metadata dump") and tag later entries with the RunID only.
package meta

import (
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Meta is everything you might want to know about a run of one of the tools, all in one place.
type Meta struct {
	AppName   string    `json:"app_name"`
	RunID     string    `json:"run_id"` // unique for each process
	StartTime time.Time `json:"start_time"`
	OS        struct {
		Host string `json:"host"`
		PID  int    `json:"pid"`
	} `json:"os"`
	Runtime struct{ GOARCH, GOOS, Version string } `json:"runtime"`
	VCS     struct {
		Revision string `json:"revision,omitempty"`
		Modified bool   `json:"modified,omitempty"`
	} `json:"vcs"`
}

// New collects metadata for the app named appName.
func New(appName string) Meta {
	m := Meta{AppName: appName, RunID: uuid.NewString(), StartTime: time.Now()}
	m.OS.Host, _ = os.Hostname() // empty is fine
	m.OS.PID = os.Getpid()
	m.Runtime.GOARCH, m.Runtime.GOOS, m.Runtime.Version = runtime.GOARCH, runtime.GOOS, runtime.Version()
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				m.VCS.Revision = s.Value
			case "vcs.modified":
				m.VCS.Modified = s.Value == "true"
			}
		}
	}
	return m
}
