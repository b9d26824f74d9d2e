package records

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadOverview(t *testing.T) {
	data := `project,merge_count,fix_count,considered
gumtree,120,7,3021
pandora,55,2,873
`
	got, err := LoadOverview(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	want := []Project{
		{Name: "gumtree", MergeCount: 120, FixCount: 7},
		{Name: "pandora", MergeCount: 55, FixCount: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v\ngot\n%v", want, got)
	}
}

func TestLoadOverviewBadCount(t *testing.T) {
	data := `project,merge_count,fix_count
gumtree,not-a-number,7
`
	_, err := LoadOverview(strings.NewReader(data))
	if err == nil {
		t.Fatal("wanted error for non-numeric merge count")
	}
}

func TestLoadOverviewShortRow(t *testing.T) {
	data := `project,merge_count,fix_count
gumtree,120
`
	_, err := LoadOverview(strings.NewReader(data))
	if err == nil {
		t.Fatal("wanted error for row with missing fields")
	}
}

func TestLoadBugfixes(t *testing.T) {
	data := `aaa1,bbb1,ccc1,ddd1
aaa2,,,
`
	got, err := LoadBugfixes(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	want := []BugfixRecord{
		{Merge: "aaa1", Fix: "bbb1"},
		{Merge: "aaa2", Fix: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v\ngot\n%v", want, got)
	}
}

func TestLoadMerges(t *testing.T) {
	data := `o1,a1,b1,m1,5,1600000000
o2,a2,b2,m2,2,1600000001
`
	got, err := LoadMerges(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	want := []MergeRecord{
		{O: "o1", A: "a1", B: "b1", M: "m1"},
		{O: "o2", A: "a2", B: "b2", M: "m2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v\ngot\n%v", want, got)
	}
}

func TestJoin(t *testing.T) {
	merges := []MergeRecord{
		{O: "o1", A: "a1", B: "b1", M: "m1"},
		{O: "o2", A: "a2", B: "b2", M: "m2"},
		{O: "o3", A: "a3", B: "b3", M: "m3"},
	}
	fixes := []BugfixRecord{
		{Merge: "m1", Fix: "f1"},
		{Merge: "m3", Fix: ""},
	}
	got := Join(merges, fixes)
	want := []JoinedMerge{
		{O: "o1", A: "a1", B: "b1", M: "m1", Fix: "f1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v\ngot\n%v", want, got)
	}
	// m2 had no bugfix row, m3 had an empty fix: both dropped.
	dropped := len(merges) - len(got)
	if dropped != 2 {
		t.Fatalf("wanted 2 dropped merges, got %v", dropped)
	}
}

func TestJoinNoFixes(t *testing.T) {
	merges := []MergeRecord{{O: "o1", A: "a1", B: "b1", M: "m1"}}
	got := Join(merges, nil)
	if len(got) != 0 {
		t.Fatalf("wanted no joined merges, got %v", got)
	}
}
