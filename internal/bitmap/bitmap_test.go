package bitmap

import (
	"errors"
	"testing"

	gerrors "wprefix/internal/infrastructure/errors"
)

func filled(t *testing.T, w, h int, format Format, fill func(x, y int) ARGB) *Bitmap {
	t.Helper()
	b, err := New(w, h, format)
	if err != nil {
		t.Fatalf("New(%d, %d) unexpected error = %v", w, h, err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if err := b.SetPixel(x, y, fill(x, y)); err != nil {
				t.Fatalf("SetPixel(%d, %d) unexpected error = %v", x, y, err)
			}
		}
	}
	return b
}

func TestNew_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		format Format
		status gerrors.Status
	}{
		{"zero width", 0, 4, Format32bppARGB, gerrors.InvalidParameter},
		{"negative height", 4, -1, Format32bppARGB, gerrors.InvalidParameter},
		{"unknown format", 4, 4, Format(42), gerrors.InvalidParameter},
		{"too large", 1 << 14, 1 << 14, Format32bppARGB, gerrors.OutOfMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.w, tt.h, tt.format)
			if b != nil {
				t.Error("New() returned a bitmap on failure")
			}
			if got := gerrors.StatusOf(err); got != tt.status {
				t.Errorf("New() status = %v, want %v", got, tt.status)
			}
		})
	}
}

func TestPixelAt_NonAlphaFormatIsOpaque(t *testing.T) {
	b := filled(t, 2, 2, Format24bppRGB, func(x, y int) ARGB { return 0x00123456 })

	p, err := b.PixelAt(1, 1)
	if err != nil {
		t.Fatalf("PixelAt() unexpected error = %v", err)
	}
	if p != 0xff123456 {
		t.Errorf("PixelAt() = %#x, want 0xff123456", uint32(p))
	}

	if _, err := b.PixelAt(2, 0); !gerrors.IsInvalidParameter(err) {
		t.Errorf("PixelAt() out of range error = %v, want INVALID_PARAMETER", err)
	}
}

func TestLockBits(t *testing.T) {
	b := filled(t, 3, 2, Format32bppARGB, func(x, y int) ARGB { return ARGB(y*3 + x) })

	data, err := b.LockBits()
	if err != nil {
		t.Fatalf("LockBits() unexpected error = %v", err)
	}
	if got := data.Row(1)[2]; got != 5 {
		t.Errorf("Row(1)[2] = %d, want 5", got)
	}

	if _, err := b.LockBits(); !gerrors.IsObjectBusy(err) {
		t.Errorf("second LockBits() error = %v, want OBJECT_BUSY", err)
	}
	if err := b.SetPixel(0, 0, 1); !gerrors.IsObjectBusy(err) {
		t.Errorf("SetPixel() while locked error = %v, want OBJECT_BUSY", err)
	}

	if err := b.UnlockBits(data); err != nil {
		t.Fatalf("UnlockBits() unexpected error = %v", err)
	}
	if err := b.UnlockBits(data); !gerrors.IsWrongState(err) {
		t.Errorf("second UnlockBits() error = %v, want WRONG_STATE", err)
	}

	mask := filled(t, 1, 1, Format1bppIndexed, func(_, _ int) ARGB { return Black })
	if _, err := mask.LockBits(); !gerrors.IsInvalidParameter(err) {
		t.Errorf("LockBits() on 1bpp error = %v, want INVALID_PARAMETER", err)
	}
}

func TestRetainRelease(t *testing.T) {
	b := filled(t, 1, 1, Format32bppARGB, func(_, _ int) ARGB { return White })

	b.Retain()
	b.Release()
	if b.Released() {
		t.Fatal("bitmap released while a reference is still held")
	}
	if b.Refs() != 1 {
		t.Errorf("Refs() = %d, want 1", b.Refs())
	}

	b.Release()
	if !b.Released() {
		t.Fatal("bitmap not released after last reference")
	}
	b.Release()
	if b.Refs() != 0 {
		t.Errorf("Refs() after extra Release = %d, want 0", b.Refs())
	}

	if _, err := b.PixelAt(0, 0); !gerrors.IsWrongState(err) {
		t.Errorf("PixelAt() on released bitmap error = %v, want WRONG_STATE", err)
	}
	if b.Width() != 0 || b.Height() != 0 {
		t.Errorf("released dimensions = %dx%d, want 0x0", b.Width(), b.Height())
	}
}

func TestIterate_RasterOrderAndStop(t *testing.T) {
	b := filled(t, 3, 2, Format32bppARGB, func(x, y int) ARGB { return ARGB(y*3 + x) })

	for name, traverse := range map[string]Traversal{"fast": Iterate, "slow": IterateSlow} {
		t.Run(name, func(t *testing.T) {
			var seen []ARGB
			stopped, err := traverse(b, func(x, y int, p ARGB) (State, error) {
				seen = append(seen, p.RGB())
				if x == 1 && y == 1 {
					return Stop, nil
				}
				return Continue, nil
			})
			if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if !stopped {
				t.Error("expected stopped = true")
			}
			want := []ARGB{0, 1, 2, 3, 4}
			if len(seen) != len(want) {
				t.Fatalf("visited %v, want %v", seen, want)
			}
			for i := range want {
				if seen[i] != want[i] {
					t.Errorf("visit %d = %d, want %d", i, seen[i], want[i])
				}
			}

			stopped, err = traverse(b, func(_, _ int, _ ARGB) (State, error) { return Continue, nil })
			if err != nil || stopped {
				t.Errorf("full traversal = (%v, %v), want (false, nil)", stopped, err)
			}
		})
	}
}

func TestIterate_VisitorErrorAbortsAndUnlocks(t *testing.T) {
	b := filled(t, 4, 4, Format32bppARGB, func(_, _ int) ARGB { return White })
	boom := errors.New("boom")

	calls := 0
	_, err := Iterate(b, func(_, _ int, _ ARGB) (State, error) {
		calls++
		return Continue, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Iterate() error = %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("visitor called %d times after failure, want 1", calls)
	}

	if _, err := b.LockBits(); err != nil {
		t.Errorf("bitmap left locked after failed iteration: %v", err)
	}
}

func TestCopy(t *testing.T) {
	src := filled(t, 2, 2, Format32bppARGB, func(x, y int) ARGB { return ARGB(0x80000000 | y<<8 | x) })

	dst, err := Copy(src)
	if err != nil {
		t.Fatalf("Copy() unexpected error = %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want, _ := src.PixelAt(x, y)
			got, _ := dst.PixelAt(x, y)
			if got != want {
				t.Errorf("pixel (%d,%d) = %#x, want %#x", x, y, uint32(got), uint32(want))
			}
		}
	}
}

func TestCopyNonAlpha(t *testing.T) {
	src := filled(t, 2, 1, Format24bppRGB, func(x, _ int) ARGB { return ARGB(0x00aabb00 | x) })

	dst, err := CopyNonAlpha(src)
	if err != nil {
		t.Fatalf("CopyNonAlpha() unexpected error = %v", err)
	}
	if dst.Format() != Format32bppARGB {
		t.Errorf("Format() = %v, want 32bpp", dst.Format())
	}
	p, _ := dst.PixelAt(1, 0)
	if p != 0xffaabb01 {
		t.Errorf("pixel = %#x, want 0xffaabb01", uint32(p))
	}
}

func TestCopyViaIterate_FailureReturnsNothing(t *testing.T) {
	src := filled(t, 2, 2, Format32bppARGB, func(_, _ int) ARGB { return White })
	fail := gerrors.New("test.visit", gerrors.Aborted)

	dst, err := CopyViaIterate(src, Iterate, func(d *Data, x, y int, p ARGB) (State, error) {
		if y == 1 {
			return Continue, fail
		}
		d.Row(y)[x] = p
		return Continue, nil
	})
	if dst != nil {
		t.Error("CopyViaIterate() returned a partial bitmap")
	}
	if !gerrors.IsAborted(err) {
		t.Errorf("CopyViaIterate() error = %v, want ABORTED", err)
	}

	src.Release()
	if _, err := Copy(src); !gerrors.IsWrongState(err) {
		t.Errorf("Copy() of released bitmap error = %v, want WRONG_STATE", err)
	}
}

func TestHasAlpha(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		fill   func(x, y int) ARGB
		want   bool
	}{
		{"all opaque", Format32bppARGB, func(_, _ int) ARGB { return White }, false},
		{"opaque and transparent", Format32bppARGB, func(x, _ int) ARGB {
			if x%2 == 0 {
				return 0x00ffffff
			}
			return White
		}, false},
		{"one partial pixel", Format32bppARGB, func(x, y int) ARGB {
			if x == 2 && y == 1 {
				return 0x80ffffff
			}
			return White
		}, true},
		{"no alpha channel", Format24bppRGB, func(_, _ int) ARGB { return 0x80ffffff }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := filled(t, 4, 4, tt.format, tt.fill)
			got, err := HasAlpha(b)
			if err != nil {
				t.Fatalf("HasAlpha() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScale(t *testing.T) {
	src := filled(t, 32, 32, Format32bppARGB, func(_, _ int) ARGB { return 0xff102030 })

	dst, err := Scale(src, 16, 16)
	if err != nil {
		t.Fatalf("Scale() unexpected error = %v", err)
	}
	if dst.Width() != 16 || dst.Height() != 16 {
		t.Errorf("Scale() size = %dx%d, want 16x16", dst.Width(), dst.Height())
	}
	p, _ := dst.PixelAt(8, 8)
	if p != 0xff102030 {
		t.Errorf("uniform scale pixel = %#x, want 0xff102030", uint32(p))
	}
	if src.Released() {
		t.Error("Scale() released its source")
	}

	if _, err := Scale(src, 0, 16); !gerrors.IsInvalidParameter(err) {
		t.Errorf("Scale() to 0 width error = %v, want INVALID_PARAMETER", err)
	}
}
