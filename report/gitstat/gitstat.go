// Package gitstat collects diff statistics and commit messages from the
// local working copies of the studied projects.
package gitstat

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/ward/three-way-merge-finder/report/gitexec"
)

// Collector runs git against <ReposDir>/<project>.
type Collector struct {
	ReposDir   string
	GitCommand string
	// CacheDir enables on-disk caching of git output when non-empty.
	CacheDir string
}

func New(reposDir string) *Collector {
	return &Collector{
		ReposDir:   reposDir,
		GitCommand: "git",
	}
}

func (c *Collector) repoDir(project string) string {
	return filepath.Join(c.ReposDir, project)
}

// Validate checks that the project's working copy exists and looks like a
// git repository, either a regular checkout with a .git dir or a bare repo
// with an objects dir.
func (c *Collector) Validate(project string) error {
	dir := c.repoDir(project)
	stat, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("can't stat working copy %v: %v", dir, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("working copy %v is a file, expecting a dir", dir)
	}

	containsDotGit, err := dirContainsDir(dir, ".git")
	if err != nil {
		return err
	}
	if containsDotGit {
		return nil
	}
	containsObjects, err := dirContainsDir(dir, "objects")
	if err != nil {
		return err
	}
	if containsObjects {
		return nil
	}
	return fmt.Errorf("%v does not look like a git repository", dir)
}

// Numstat returns the raw `git diff --numstat` output between two commits.
func (c *Collector) Numstat(ctx context.Context, project, from, to string) (string, error) {
	out, err := c.run(ctx, project, []string{"diff", "--numstat", from, to})
	if err != nil {
		return "", fmt.Errorf("diff %v..%v: %v", from, to, err)
	}
	return out, nil
}

// CommitMessage returns the full commit message of the given commit.
func (c *Collector) CommitMessage(ctx context.Context, project, sha string) (string, error) {
	out, err := c.run(ctx, project, []string{"show", "--no-patch", "--format=%B", sha})
	if err != nil {
		return "", fmt.Errorf("message of %v: %v", sha, err)
	}
	return out, nil
}

func (c *Collector) run(ctx context.Context, project string, args []string) (string, error) {
	r, err := gitexec.ExecWithCache(ctx, c.GitCommand, c.repoDir(project), c.CacheDir, args)
	if err != nil {
		return "", err
	}
	defer r.Close()
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func dirContainsDir(dir string, sub string) (bool, error) {
	stat, err := os.Stat(filepath.Join(dir, sub))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("can't check if dir contains %v, dir: %v err: %v", sub, dir, err)
	}
	if !stat.IsDir() {
		return false, nil
	}
	return true, nil
}
