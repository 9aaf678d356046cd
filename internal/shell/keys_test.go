package shell

import (
	"bytes"
	"testing"
)

func TestSpecialKeyBytes_Named(t *testing.T) {
	cases := map[string][]byte{
		"Enter":     {'\r'},
		"Tab":       {'\t'},
		"Backspace": {0x7F},
		"Escape":    {0x1B},
	}
	for name, want := range cases {
		got, err := SpecialKeyBytes(name)
		if err != nil {
			t.Fatalf("SpecialKeyBytes(%q) error: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("SpecialKeyBytes(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSpecialKeyBytes_CtrlRange(t *testing.T) {
	got, err := SpecialKeyBytes("Ctrl-c")
	if err != nil {
		t.Fatalf("SpecialKeyBytes(Ctrl-c) error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x03}) {
		t.Fatalf("Ctrl-c = %v, want 0x03", got)
	}

	got, err = SpecialKeyBytes("Ctrl-z")
	if err != nil {
		t.Fatalf("SpecialKeyBytes(Ctrl-z) error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x1A}) {
		t.Fatalf("Ctrl-z = %v, want 0x1A", got)
	}
}

func TestSpecialKeyBytes_Unknown(t *testing.T) {
	if _, err := SpecialKeyBytes("Nonsense"); err == nil {
		t.Fatalf("expected an error for an unknown key name")
	}
}
