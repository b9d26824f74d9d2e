// Package overlap parses git numstat change summaries and computes which
// file paths were touched by all three diffs of a merge: O→A, O→B and
// M→fix. Everything here is pure, no git involved.
package overlap

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// FileChange is one row of `git diff --numstat` output.
type FileChange struct {
	Added   int
	Removed int
	// Binary files have no line counts, git prints "-" instead.
	Binary bool
	Path   string
}

// git abbreviates renames as prefix/{old => new}/suffix
var renameRe = regexp.MustCompile(`(.*)\{(.*) => (.*)\}(.*)`)

// ParseNumstat parses the output of `git diff --numstat`. Each line is
//
//	<added>\t<removed>\t<path>
//
// Empty input yields an empty result. A line with fewer than three
// tab-separated fields is an error, not silently skipped.
func ParseNumstat(text string) ([]FileChange, error) {
	var res []FileChange
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tok := strings.SplitN(line, "\t", 3)
		if len(tok) < 3 {
			return nil, fmt.Errorf("numstat line %v: expected 3 tab-separated fields: %q", i+1, line)
		}
		fc := FileChange{Path: resolveRename(tok[2])}
		if tok[0] == "-" || tok[1] == "-" {
			fc.Binary = true
		} else {
			adds, err := strconv.Atoi(tok[0])
			if err != nil {
				return nil, fmt.Errorf("numstat line %v: bad added count %q", i+1, tok[0])
			}
			dels, err := strconv.Atoi(tok[1])
			if err != nil {
				return nil, fmt.Errorf("numstat line %v: bad removed count %q", i+1, tok[1])
			}
			fc.Added = adds
			fc.Removed = dels
		}
		res = append(res, fc)
	}
	return res, nil
}

// resolveRename maps a rename entry to the new filename. Must be path, not
// filepath: git output is always unix style, also on windows.
func resolveRename(fn string) string {
	if m := renameRe.FindStringSubmatch(fn); m != nil {
		return path.Join(m[1], m[3], m[4])
	}
	if s := strings.Split(fn, " => "); len(s) > 1 {
		return s[1]
	}
	return fn
}

// Paths returns the set of file paths of a change summary.
func Paths(changes []FileChange) map[string]struct{} {
	res := make(map[string]struct{}, len(changes))
	for _, c := range changes {
		res[c.Path] = struct{}{}
	}
	return res
}

// Overlap returns the sorted list of paths present in all three change
// summaries. Any empty summary forces an empty overlap.
func Overlap(a, b, c []FileChange) []string {
	bPaths := Paths(b)
	cPaths := Paths(c)
	seen := map[string]struct{}{}
	var res []string
	for _, change := range a {
		if _, ok := seen[change.Path]; ok {
			continue
		}
		seen[change.Path] = struct{}{}
		if _, ok := bPaths[change.Path]; !ok {
			continue
		}
		if _, ok := cPaths[change.Path]; !ok {
			continue
		}
		res = append(res, change.Path)
	}
	sort.Strings(res)
	return res
}
