package fileio

import "testing"

func TestParsePathSpec_NoRange(t *testing.T) {
	p, err := ParsePathSpec("main.go")
	if err != nil {
		t.Fatalf("ParsePathSpec error: %v", err)
	}
	if p.Path != "main.go" || p.Start != 0 || p.End != 0 {
		t.Fatalf("unexpected spec: %+v", p)
	}
}

func TestParsePathSpec_FullRange(t *testing.T) {
	p, err := ParsePathSpec("main.go:10-20")
	if err != nil {
		t.Fatalf("ParsePathSpec error: %v", err)
	}
	if p.Path != "main.go" || p.Start != 10 || p.End != 20 {
		t.Fatalf("unexpected spec: %+v", p)
	}
}

func TestParsePathSpec_OpenEnded(t *testing.T) {
	cases := map[string]PathSpec{
		"main.go:5-":  {Path: "main.go", Start: 5, End: 0},
		"main.go:-20": {Path: "main.go", Start: 0, End: 20},
		"main.go:-":   {Path: "main.go", Start: 0, End: 0},
	}
	for in, want := range cases {
		got, err := ParsePathSpec(in)
		if err != nil {
			t.Fatalf("ParsePathSpec(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParsePathSpec(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestParsePathSpec_InvertedRangeRejected(t *testing.T) {
	if _, err := ParsePathSpec("main.go:20-10"); err == nil {
		t.Fatalf("expected an error for start after end")
	}
}

func TestResolve(t *testing.T) {
	p := PathSpec{Path: "f", Start: 0, End: 0}
	start, end := p.Resolve(100)
	if start != 1 || end != 100 {
		t.Fatalf("Resolve defaults = (%d,%d), want (1,100)", start, end)
	}

	p2 := PathSpec{Path: "f", Start: 5, End: 1000}
	start2, end2 := p2.Resolve(50)
	if start2 != 5 || end2 != 50 {
		t.Fatalf("Resolve clamp = (%d,%d), want (5,50)", start2, end2)
	}
}
