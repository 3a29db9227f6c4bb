package cache

import (
	"os"
	"time"
)

// Source records the modification time of one file a binding was derived
// from. Mtime is stored as unix nanoseconds so records stay comparable when
// serialized.
type Source struct {
	Path  string `json:"path"`
	Mtime int64  `json:"mtime"`
}

// Record is the persisted form of a binding. Payload fields vary by family:
// type and factory bindings fill Domain/Class (and Method/Name), extender
// sets fill Classes. A record is stale as soon as any of its Sources no
// longer matches the file on disk.
type Record struct {
	Sources []Source `json:"sources"`
	Domain  string   `json:"domain,omitempty"`
	Class   string   `json:"class,omitempty"`
	Method  string   `json:"method,omitempty"`
	Name    string   `json:"name,omitempty"`
	Classes []string `json:"classes,omitempty"`
}

// StatFunc reports the modification time of a file. Injectable so tests can
// simulate source edits without touching the filesystem.
type StatFunc func(path string) (time.Time, error)

// OSStat is the default StatFunc, backed by os.Stat.
func OSStat(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// NewSource captures the current mtime of path via stat. A stat failure
// yields a zero mtime, which makes the resulting record permanently stale
// rather than erroring the build.
func NewSource(path string, stat StatFunc) Source {
	if stat == nil {
		stat = OSStat
	}
	mtime, err := stat(path)
	if err != nil {
		return Source{Path: path}
	}
	return Source{Path: path, Mtime: mtime.UnixNano()}
}

// Valid reports whether every source file still carries the recorded mtime.
// A missing or changed file makes the record stale; staleness is a cache
// miss for callers, never an error.
func (r Record) Valid(stat StatFunc) bool {
	if stat == nil {
		stat = OSStat
	}
	for _, src := range r.Sources {
		mtime, err := stat(src.Path)
		if err != nil {
			return false
		}
		if mtime.UnixNano() != src.Mtime {
			return false
		}
	}
	return true
}
