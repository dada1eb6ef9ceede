package platform

import (
	"fmt"
	"strings"
)

// Hotkey modifier bits, as RegisterHotKey expects them.
const (
	ModAlt     uint32 = 0x0001
	ModControl uint32 = 0x0002
	ModShift   uint32 = 0x0004
	ModWin     uint32 = 0x0008
)

// Hotkey is a global key combination: modifier bits plus a virtual-key code.
type Hotkey struct {
	Modifiers uint32
	Key       uint32
}

var modifierNames = map[string]uint32{
	"alt":     ModAlt,
	"ctrl":    ModControl,
	"control": ModControl,
	"shift":   ModShift,
	"win":     ModWin,
	"super":   ModWin,
}

var keyNames = map[string]uint32{
	"space":  0x20,
	"tab":    0x09,
	"enter":  0x0D,
	"return": 0x0D,
	"escape": 0x1B,
	"esc":    0x1B,
}

var canonicalKeyNames = map[uint32]string{
	0x20: "space",
	0x09: "tab",
	0x0D: "enter",
	0x1B: "esc",
}

// ParseHotkey parses combinations such as "ctrl+5" or "alt+shift+f2". At
// least one modifier and exactly one key are required.
func ParseHotkey(s string) (Hotkey, error) {
	var hk Hotkey
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) < 2 {
		return hk, fmt.Errorf("hotkey %q needs a modifier and a key", s)
	}

	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.TrimSpace(part)]
		if !ok {
			return hk, fmt.Errorf("hotkey %q: unknown modifier %q", s, part)
		}
		hk.Modifiers |= mod
	}

	key, err := parseKey(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return hk, fmt.Errorf("hotkey %q: %w", s, err)
	}
	hk.Key = key
	return hk, nil
}

func parseKey(name string) (uint32, error) {
	if vk, ok := keyNames[name]; ok {
		return vk, nil
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= '0' && c <= '9':
			return uint32(c), nil
		case c >= 'a' && c <= 'z':
			return uint32(c - 'a' + 'A'), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && n >= 1 && n <= 24 && name == fmt.Sprintf("f%d", n) {
		return 0x70 + uint32(n-1), nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// String renders the hotkey in the form ParseHotkey accepts.
func (h Hotkey) String() string {
	var parts []string
	for _, m := range []struct {
		bit  uint32
		name string
	}{{ModControl, "ctrl"}, {ModAlt, "alt"}, {ModShift, "shift"}, {ModWin, "win"}} {
		if h.Modifiers&m.bit != 0 {
			parts = append(parts, m.name)
		}
	}

	key := fmt.Sprintf("%#x", h.Key)
	switch {
	case h.Key >= '0' && h.Key <= '9', h.Key >= 'A' && h.Key <= 'Z':
		key = strings.ToLower(string(rune(h.Key)))
	case h.Key >= 0x70 && h.Key <= 0x87:
		key = fmt.Sprintf("f%d", h.Key-0x70+1)
	default:
		if name, ok := canonicalKeyNames[h.Key]; ok {
			key = name
		}
	}
	return strings.Join(append(parts, key), "+")
}
