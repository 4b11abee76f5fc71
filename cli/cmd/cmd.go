package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns ctx carrying ktx for commands that inspect the parsed
// model.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// stdinSource names standard input wherever a file path is accepted.
const stdinSource = "-"

// openSource opens path, or returns standard input for "-". The returned
// name identifies the source in errors and logs.
func openSource(path string) (io.ReadCloser, string, error) {
	if path == "" || path == stdinSource {
		return io.NopCloser(os.Stdin), "stdin", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, path, ErrReadTemplate.Wrap(err).With(slog.String("path", path))
	}

	return f, path, nil
}

// fileKey identifies a file by device and inode, so that one file reached
// through different paths or symlinks is recognized.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths removes repeated files from paths, keeping the first
// occurrence of each. Every "-" (and any path naming the same file as
// standard input) collapses into stdin, which is read after all files.
// Paths that cannot be resolved are kept so that loading reports them.
func uniquePaths(paths []string) (files []string, stdin bool) {
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	haveStdin := false

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, haveStdin = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			stdin = true

			continue
		}

		key, ok := resolveKey(path)
		if !ok {
			files = append(files, path)

			continue
		}

		if haveStdin && key == stdinKey {
			stdin = true

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		files = append(files, path)
	}

	return files, stdin
}

func resolveKey(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
