// Package gitexec runs the git command line tool inside a repository
// working copy and returns its output.
package gitexec

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Exec runs gitCommand with args in repoDir and returns stdout. A non-zero
// exit status is an error, it carries the repo dir, the args and whatever
// git wrote to stderr.
func Exec(ctx context.Context, gitCommand string, repoDir string, args []string) (io.ReadCloser, error) {
	buf := bytes.NewBuffer(nil)
	err := ExecIntoWriter(ctx, buf, gitCommand, repoDir, args)
	if err != nil {
		return nil, err
	}
	return noopReadCloser{buf}, nil
}

func ExecIntoWriter(ctx context.Context, wr io.Writer, gitCommand string, repoDir string, args []string) error {
	stderr := bytes.NewBuffer(nil)
	c := exec.CommandContext(ctx, gitCommand, args...)
	c.Dir = repoDir
	c.Stderr = stderr
	c.Stdout = wr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed executing %v %v in %v: %v: %v", gitCommand, strings.Join(args, " "), repoDir, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ExecWithCache is Exec with the output cached on disk under cacheDir. Only
// use for commands whose output is immutable for fixed args, such as diffs
// between fixed commits. Empty cacheDir disables caching.
func ExecWithCache(ctx context.Context, gitCommand string, repoDir string, cacheDir string, args []string) (io.ReadCloser, error) {
	if cacheDir == "" {
		return Exec(ctx, gitCommand, repoDir, args)
	}

	cacheKey := hashString(repoDir + "@" + strings.Join(args, "@"))
	loc := filepath.Join(cacheDir, cacheKey+".txt")

	f, err := os.Open(loc)
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not open cache file at %v: %v", loc, err)
	}

	if err := os.MkdirAll(cacheDir, 0777); err != nil {
		return nil, err
	}

	f, err = os.Create(loc + ".tmp")
	if err != nil {
		return nil, err
	}

	if err := ExecIntoWriter(ctx, f, gitCommand, repoDir, args); err != nil {
		f.Close()
		os.Remove(loc + ".tmp")
		return nil, err
	}

	if err := f.Close(); err != nil {
		return nil, err
	}

	if err := os.Rename(loc+".tmp", loc); err != nil {
		return nil, err
	}

	return os.Open(loc)
}

func hashString(str string) string {
	h := sha256.Sum256([]byte(str))
	return hex.EncodeToString(h[:])
}

type noopReadCloser struct {
	io.Reader
}

func (noopReadCloser) Close() error {
	return nil
}
