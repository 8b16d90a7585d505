package imaging

import "testing"

func TestParseFormatAliases(t *testing.T) {
	cases := map[string]Format{
		"jpg":   FormatJPEG,
		"jpeg":  FormatJPEG,
		".JPG":  FormatJPEG,
		"png":   FormatPNG,
		"webp":  FormatWebP,
		"gif":   FormatGIF,
		"ico":   FormatICO,
		"bmp":   FormatBMP,
		"tif":   FormatTIFF,
		" tiff": FormatTIFF,
	}
	for input, expected := range cases {
		got, ok := ParseFormat(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if got != expected {
			t.Fatalf("%q: expected %s, got %s", input, expected, got)
		}
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "svg", "pdf", "exe"} {
		if _, ok := ParseFormat(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	format, ok := FormatFromPath("/root/photos/cat.JPEG")
	if !ok || format != FormatJPEG {
		t.Fatalf("expected jpeg, got %s (ok=%v)", format, ok)
	}
	if _, ok := FormatFromPath("/root/readme.txt"); ok {
		t.Fatal("expected txt extension to be rejected")
	}
}

func TestFormatMIME(t *testing.T) {
	if mime := FormatJPEG.MIME(); mime != "image/jpeg" {
		t.Fatalf("unexpected jpeg mime: %s", mime)
	}
	if mime := FormatWebP.MIME(); mime != "image/webp" {
		t.Fatalf("unexpected webp mime: %s", mime)
	}
	if mime := Format("bogus").MIME(); mime != "application/octet-stream" {
		t.Fatalf("unexpected fallback mime: %s", mime)
	}
}

func TestTransformExcludedFormats(t *testing.T) {
	if !FormatGIF.TransformExcluded() || !FormatICO.TransformExcluded() {
		t.Fatal("gif and ico must skip the transform pipeline")
	}
	if FormatJPEG.TransformExcluded() || FormatWebP.TransformExcluded() {
		t.Fatal("jpeg/webp must be transformable")
	}
}
