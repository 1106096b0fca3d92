package utils

import (
	"image/color"
	"strings"
	"testing"
	"time"
)

func TestUtils_DecorateText(t *testing.T) {
	msg := DecorateText("sample", ErrorMessage)

	if !strings.HasPrefix(msg, ErrorColor) {
		t.Errorf("The error message should start with the error color code. Got %q", msg)
	}
	if !strings.HasSuffix(msg, DefaultColor) {
		t.Errorf("The decorated message should reset the color. Got %q", msg)
	}
}

func TestUtils_FormatTime(t *testing.T) {
	if ft := FormatTime(12 * time.Second); ft != "12.00s" {
		t.Errorf("Expected 12.00s. Got %v", ft)
	}
	if ft := FormatTime(90 * time.Second); ft != "1m 30.00s" {
		t.Errorf("Expected 1m 30.00s. Got %v", ft)
	}
}

func TestUtils_HexToRGBA(t *testing.T) {
	if col := HexToRGBA("#fd2f24"); col != (color.NRGBA{R: 0xfd, G: 0x2f, B: 0x24, A: 0xff}) {
		t.Errorf("Unexpected color conversion: %v", col)
	}
	if col := HexToRGBA("0f0"); col != (color.NRGBA{G: 0xff, A: 0xff}) {
		t.Errorf("Short hex form expected to expand. Got %v", col)
	}
	if col := HexToRGBA("junk"); col != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Malformed input expected to fall back to red. Got %v", col)
	}
}

func TestUtils_Math(t *testing.T) {
	if v := Min(3, 5); v != 3 {
		t.Errorf("Min expected to be 3. Got %v", v)
	}
	if v := Max(3.0, 5.0); v != 5.0 {
		t.Errorf("Max expected to be 5. Got %v", v)
	}
	if v := Abs(-4); v != 4 {
		t.Errorf("Abs expected to be 4. Got %v", v)
	}
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	if !IsValidUrl("https://github.com/caomw/SIFT-implementation/") {
		t.Errorf("A valid URL should have been provided")
	}
	if IsValidUrl("not-an-url") {
		t.Errorf("A malformed URL should have been rejected")
	}
}
