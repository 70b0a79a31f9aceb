package models

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/disintegration/imaging"
)

// jpegFixture encodes a plain baseline JPEG of the given size
func jpegFixture(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

// withOrientation splices an EXIF APP1 segment carrying the given
// orientation tag in directly after the start-of-image marker. The TIFF
// block holds a single IFD0 with the one tag, which is all a camera
// needs to write for a photo to come out sideways when re-encoded
// naively.
func withOrientation(t *testing.T, jpg []byte, orientation uint16) []byte {
	t.Helper()

	tiff := []byte{
		'I', 'I', 0x2A, 0x00, // little-endian TIFF header
		0x08, 0x00, 0x00, 0x00, // IFD0 follows the header
		0x01, 0x00, // one entry
		0x12, 0x01, // tag 0x0112, Orientation
		0x03, 0x00, // type SHORT
		0x01, 0x00, 0x00, 0x00, // count 1
		byte(orientation), byte(orientation >> 8), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // no further IFDs
	}

	payload := append([]byte("Exif\x00\x00"), tiff...)

	segment := []byte{0xFF, 0xE1}
	segment = append(segment,
		byte((len(payload)+2)>>8), byte(len(payload)+2))
	segment = append(segment, payload...)

	var out []byte
	out = append(out, jpg[:2]...)
	out = append(out, segment...)
	out = append(out, jpg[2:]...)

	return out
}

func TestMakeThumbnailAppliesOrientation(t *testing.T) {
	// Orientation 6 is the common portrait-photo tag: the pixels are
	// stored landscape and the viewer is expected to rotate 90 degrees
	src := withOrientation(t, jpegFixture(t, 80, 40), 6)

	thumb, err := makeThumbnail(src)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 40 || b.Dy() != 80 {
		t.Errorf("thumbnail is %dx%d, should be rotated to 40x80",
			b.Dx(), b.Dy())
	}
}

func TestMakeThumbnailWithoutExifData(t *testing.T) {
	thumb, err := makeThumbnail(jpegFixture(t, 80, 40))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 80 || b.Dy() != 40 {
		t.Errorf("thumbnail is %dx%d, should be 80x40 untouched",
			b.Dx(), b.Dy())
	}
}

func TestMakeThumbnailFitsLargeImages(t *testing.T) {
	thumb, err := makeThumbnail(jpegFixture(t, 512, 256))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("thumbnail is %dx%d, should fit to 128x64",
			b.Dx(), b.Dy())
	}
}
