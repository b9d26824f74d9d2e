package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Project is one row of the overview table, counting how many merges the
// project has and how many of those got an immediate fix.
type Project struct {
	Name       string
	MergeCount int
	FixCount   int
}

// MergeRecord describes a three-way merge: merge base O, the two parents A
// and B, and the resulting merge commit M.
type MergeRecord struct {
	O string
	A string
	B string
	M string
}

// BugfixRecord links a merge commit to the commit that fixed it. Fix is
// empty when no fixing commit was found for the merge.
type BugfixRecord struct {
	Merge string
	Fix   string
}

// JoinedMerge is a MergeRecord together with the fix commit of its matching
// BugfixRecord.
type JoinedMerge struct {
	O   string
	A   string
	B   string
	M   string
	Fix string
}

// LoadOverview reads the project overview table. Format:
//
//	project,merge_count,fix_count,...
//
// The first line is a header and is skipped. Extra columns are ignored.
func LoadOverview(r io.Reader) ([]Project, error) {
	rows, err := readRows(r, 3)
	if err != nil {
		return nil, fmt.Errorf("overview: %v", err)
	}
	var res []Project
	for i, row := range rows {
		if i == 0 {
			// header
			continue
		}
		mc, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("overview row %v: bad merge count %q", i+1, row[1])
		}
		fc, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("overview row %v: bad fix count %q", i+1, row[2])
		}
		res = append(res, Project{Name: row[0], MergeCount: mc, FixCount: fc})
	}
	return res, nil
}

// LoadBugfixes reads a per-project bugfix table. Format:
//
//	merge_commit,fix_commit,...
//
// No header. Only the first fix column is used, extra columns are ignored.
func LoadBugfixes(r io.Reader) ([]BugfixRecord, error) {
	rows, err := readRows(r, 2)
	if err != nil {
		return nil, fmt.Errorf("bugfixes: %v", err)
	}
	var res []BugfixRecord
	for _, row := range rows {
		res = append(res, BugfixRecord{Merge: row[0], Fix: row[1]})
	}
	return res, nil
}

// LoadMerges reads a per-project merge table. Format:
//
//	O,A,B,M,...
//
// No header. Extra columns are ignored.
func LoadMerges(r io.Reader) ([]MergeRecord, error) {
	rows, err := readRows(r, 4)
	if err != nil {
		return nil, fmt.Errorf("merges: %v", err)
	}
	var res []MergeRecord
	for _, row := range rows {
		res = append(res, MergeRecord{O: row[0], A: row[1], B: row[2], M: row[3]})
	}
	return res, nil
}

// readRows reads all csv rows and checks each has at least minFields fields.
// The tables carry a variable number of trailing columns we do not care
// about, so FieldsPerRecord checking is disabled.
func readRows(r io.Reader, minFields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) < minFields {
			return nil, fmt.Errorf("row %v: expected at least %v fields, got %v", i+1, minFields, len(row))
		}
	}
	return rows, nil
}

// Join matches bugfix records to merge records on the merge commit hash.
// A merge is kept only when a bugfix row names its M commit and carries a
// non-empty fix commit. Everything else is dropped.
func Join(merges []MergeRecord, fixes []BugfixRecord) []JoinedMerge {
	var res []JoinedMerge
	for _, m := range merges {
		for _, f := range fixes {
			if f.Merge != m.M || f.Fix == "" {
				continue
			}
			res = append(res, JoinedMerge{O: m.O, A: m.A, B: m.B, M: m.M, Fix: f.Fix})
			break
		}
	}
	return res
}
