// Package paths locates engine datafiles (palette and sprite library
// JSON) across the places a checkout or an installed binary keeps them.
package paths

import (
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// EnvDataDir, when set, is checked before any other location.
const EnvDataDir = "GORETRO_DATA_DIR"

// candidateDirs returns the directories Find searches, in order: the
// environment override, the working directory, a datafiles/ subdirectory,
// and the same two relative to the running binary.
func candidateDirs() []string {
	var dirs []string
	if env := os.Getenv(EnvDataDir); env != "" {
		dirs = append(dirs, env)
	}
	dirs = append(dirs, ".", "datafiles")
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Join(exeDir, "datafiles"))
	}
	return dirs
}

// Find locates the passed datafile shortname and returns a path to open it
// at, or an empty string when no candidate location has it.
//
// For example, for "library.json" it may return "datafiles/library.json".
func Find(fileName string) string {
	for _, dir := range candidateDirs() {
		path := filepath.Join(dir, fileName)
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look,
// and opens it.
func Open(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	path := Find(fileName)
	if path == "" {
		return nil, os.ErrNotExist
	}
	return os.Open(path)
}

// NoFindOpen opens the passed path directly, without searching. Callers
// use it when a flag already carries an explicit path.
func NoFindOpen(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	return os.Open(fileName)
}
