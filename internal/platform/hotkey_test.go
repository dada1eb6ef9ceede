package platform

import "testing"

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input   string
		want    Hotkey
		wantErr bool
	}{
		{input: "ctrl+5", want: Hotkey{Modifiers: ModControl, Key: '5'}},
		{input: "Ctrl+4", want: Hotkey{Modifiers: ModControl, Key: '4'}},
		{input: "alt+shift+f2", want: Hotkey{Modifiers: ModAlt | ModShift, Key: 0x71}},
		{input: "win+space", want: Hotkey{Modifiers: ModWin, Key: 0x20}},
		{input: " control + s ", want: Hotkey{Modifiers: ModControl, Key: 'S'}},
		{input: "5", wantErr: true},
		{input: "", wantErr: true},
		{input: "hyper+5", wantErr: true},
		{input: "ctrl+f99", wantErr: true},
		{input: "ctrl+f1x", wantErr: true},
		{input: "ctrl+", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHotkey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHotkey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHotkey(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHotkey_StringRoundTrip(t *testing.T) {
	for _, s := range []string{"ctrl+5", "ctrl+alt+shift+win+z", "alt+f12", "ctrl+space", "shift+esc"} {
		hk, err := ParseHotkey(s)
		if err != nil {
			t.Fatalf("ParseHotkey(%q) unexpected error = %v", s, err)
		}
		if got := hk.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}
