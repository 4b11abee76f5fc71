package data

import (
	"maps"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// builtins is the process-wide part of every expression environment.
// Variables and [EnvName] hide entries of the same name.
var builtins = sync.OnceValue(func() map[string]any {
	return map[string]any{
		"platform": platform(),
		"target":   target(),
		"hostname": hostname(),
		"user":     currentUser(),
		"shell":    shell(),
		"cwd":      cwd,
		"file": map[string]any{
			"exists":    fileExists,
			"isDir":     fileIsDir,
			"isRegular": fileIsRegular,
			"isSymlink": fileIsSymlink,
		},
		"path": map[string]any{
			"abs":  pathAbs,
			"base": filepath.Base,
			"cat":  pathCat,
			"dir":  filepath.Dir,
			"ext":  filepath.Ext,
			"rel":  pathRel,
		},
		"mung": map[string]any{
			"prefix":  mungPrefix,
			"classes": mungClasses,
		},
	}
})

// Builtins returns a copy of the names visible to every expression.
func Builtins() map[string]any { return maps.Clone(builtins()) }

// platform is the host OS and architecture in Go naming, honoring the
// GOHOSTOS, GOOS, GOHOSTARCH and GOARCH overrides.
func platform() map[string]string {
	return map[string]string{
		"os":   lookupEnv(runtime.GOOS, "GOHOSTOS", "GOOS"),
		"arch": lookupEnv(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

// target is the host platform in GNU toolchain naming.
func target() map[string]string {
	t := platform()

	switch t["arch"] {
	case "386":
		t["arch"] = "i386"
	case "amd64":
		t["arch"] = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			if arm = strings.TrimSpace(arm); arm == "5" || arm == "6" || arm == "7" {
				t["arch"] = "armv" + arm
			}
		}
	case "arm64":
		if t["os"] != "darwin" {
			t["arch"] = "aarch64"
		}
	case "mipsle":
		t["arch"] = "mipsel"
	}

	return t
}

func lookupEnv(fallback string, keys ...string) string {
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			return v
		}
	}

	return fallback
}

func hostname() string {
	h, _ := os.Hostname()

	return h
}

func currentUser() map[string]string {
	u, err := user.Current()
	if err != nil {
		return map[string]string{}
	}

	return map[string]string{
		"name":     u.Name,
		"username": u.Username,
		"uid":      u.Uid,
		"home":     u.HomeDir,
	}
}

func shell() string {
	if s, ok := os.LookupEnv("SHELL"); ok {
		return s
	}

	return ""
}

func cwd() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return pathAbs(".")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func pathAbs(path string) string {
	if p, err := filepath.Abs(path); err == nil {
		return p
	}

	return path
}

func pathCat(elem ...string) string { return filepath.Join(elem...) }

func pathRel(from, to string) string {
	if p, err := filepath.Rel(pathAbs(from), pathAbs(to)); err == nil {
		return p
	}

	return pathCat(from, to)
}

// mungPrefix puts items at the front of the PATH-like list subject.
func mungPrefix(subject string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}

// mungClasses puts items at the front of the space-separated class list
// subject.
func mungClasses(subject string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(" "),
		mung.WithPrefixItems(items...),
	).String()
}
