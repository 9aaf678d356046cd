package shell

import "fmt"

// namedKeys maps the exact wire names the external interface requires
// onto the byte sequence written to the PTY. Ctrl-a through Ctrl-z are
// computed rather than enumerated; the named arrows, paging, and editing
// keys send the classic VT100/xterm CSI sequences.
var namedKeys = map[string][]byte{
	"Enter":     {'\r'},
	"Tab":       {'\t'},
	"Backspace": {0x7F},
	"Delete":    {0x1B, '[', '3', '~'},
	"Escape":    {0x1B},
	"Key-up":    {0x1B, '[', 'A'},
	"Key-down":  {0x1B, '[', 'B'},
	"Key-right": {0x1B, '[', 'C'},
	"Key-left":  {0x1B, '[', 'D'},
	"Home":      {0x1B, '[', 'H'},
	"End":       {0x1B, '[', 'F'},
	"Page-up":   {0x1B, '[', '5', '~'},
	"Page-down": {0x1B, '[', '6', '~'},
}

// SpecialKeyBytes resolves a wire key name to the bytes written to the PTY.
// Ctrl-a..Ctrl-z map to their control-code value (Ctrl-a = 0x01 .. Ctrl-z =
// 0x1A), matching every terminal's standard control-character mapping.
func SpecialKeyBytes(name string) ([]byte, error) {
	if b, ok := namedKeys[name]; ok {
		return b, nil
	}
	if len(name) == len("Ctrl-x") && name[:5] == "Ctrl-" {
		c := name[5]
		if c >= 'a' && c <= 'z' {
			return []byte{c - 'a' + 1}, nil
		}
	}
	return nil, fmt.Errorf("unknown special key name: %q", name)
}
