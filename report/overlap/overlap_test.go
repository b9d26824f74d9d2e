package overlap

import (
	"reflect"
	"testing"
)

func TestParseNumstatBasic(t *testing.T) {
	data := "10\t2\tsrc/main/java/App.java\n0\t5\tREADME.md\n"
	got, err := ParseNumstat(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []FileChange{
		{Added: 10, Removed: 2, Path: "src/main/java/App.java"},
		{Added: 0, Removed: 5, Path: "README.md"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v\ngot\n%v", want, got)
	}
}

func TestParseNumstatBinary(t *testing.T) {
	data := "-\t-\timg/logo.png\n"
	got, err := ParseNumstat(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []FileChange{{Binary: true, Path: "img/logo.png"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v\ngot\n%v", want, got)
	}
}

func TestParseNumstatRename(t *testing.T) {
	data := "3\t3\tsrc/{old => new}/App.java\n1\t0\ta.txt => b.txt\n"
	got, err := ParseNumstat(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []FileChange{
		{Added: 3, Removed: 3, Path: "src/new/App.java"},
		{Added: 1, Removed: 0, Path: "b.txt"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v\ngot\n%v", want, got)
	}
}

func TestParseNumstatEmpty(t *testing.T) {
	got, err := ParseNumstat("")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("wanted empty result, got %v", got)
	}
}

func TestParseNumstatMalformed(t *testing.T) {
	_, err := ParseNumstat("1\t1\tok.py\n5 5 no-tabs-here\n")
	if err == nil {
		t.Fatal("wanted error for line with fewer than 3 tab-separated fields")
	}
}

func TestParseNumstatBadCount(t *testing.T) {
	_, err := ParseNumstat("x\t1\tfoo.py\n")
	if err == nil {
		t.Fatal("wanted error for non-numeric added count")
	}
}

func mustParse(t *testing.T, text string) []FileChange {
	t.Helper()
	res, err := ParseNumstat(text)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestOverlapExample(t *testing.T) {
	a := mustParse(t, "1\t1\tfoo.py")
	b := mustParse(t, "2\t0\tfoo.py\n0\t3\tbar.py")
	c := mustParse(t, "1\t1\tfoo.py")
	got := Overlap(a, b, c)
	want := []string{"foo.py"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
}

func TestOverlapDisjoint(t *testing.T) {
	a := mustParse(t, "1\t1\ta.py")
	b := mustParse(t, "1\t1\tb.py")
	c := mustParse(t, "1\t1\tc.py")
	if got := Overlap(a, b, c); len(got) != 0 {
		t.Fatalf("wanted empty overlap, got %v", got)
	}
}

func TestOverlapIdentical(t *testing.T) {
	text := "1\t0\ta.py\n0\t1\tb.py\n2\t2\tc.py"
	s := mustParse(t, text)
	got := Overlap(s, s, s)
	want := []string{"a.py", "b.py", "c.py"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
}

func TestOverlapOrderIndependent(t *testing.T) {
	a := mustParse(t, "1\t1\tshared.py\n1\t1\tonly-a.py")
	b := mustParse(t, "1\t1\tshared.py\n1\t1\tonly-b.py")
	c := mustParse(t, "1\t1\tshared.py\n1\t1\tonly-c.py")
	want := []string{"shared.py"}
	perms := [][3][]FileChange{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for i, p := range perms {
		got := Overlap(p[0], p[1], p[2])
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %v: wanted %v, got %v", i, want, got)
		}
	}
}

func TestOverlapEmptyInput(t *testing.T) {
	a := mustParse(t, "1\t1\tfoo.py")
	if got := Overlap(a, a, nil); len(got) != 0 {
		t.Fatalf("wanted empty overlap with one empty summary, got %v", got)
	}
}

func TestOverlapDuplicatePaths(t *testing.T) {
	// The same path twice in one summary must not show up twice.
	a := mustParse(t, "1\t1\tfoo.py\n2\t2\tfoo.py")
	got := Overlap(a, a, a)
	want := []string{"foo.py"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
}
