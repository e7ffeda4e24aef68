// Package qrscan extracts the text payload from QR code images.
package qrscan

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoQRCode indicates an image decoded fine but contained no readable QR symbol.
var ErrNoQRCode = errors.New("no qr code found")

// Reader decodes QR symbols from image files.
type Reader struct {
	// TryHarder trades speed for accuracy on noisy or rotated photos.
	TryHarder bool
}

// New returns a Reader.
func New(tryHarder bool) *Reader {
	return &Reader{TryHarder: tryHarder}
}

// ReadFile decodes the JPEG or PNG at path and returns the QR text.
func (r *Reader) ReadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image %s: %w", path, err)
	}
	text, err := r.ReadImage(img)
	if err != nil {
		return "", fmt.Errorf("%s image %s: %w", format, path, err)
	}
	return text, nil
}

// ReadImage binarizes img and runs the QR reader over it.
func (r *Reader) ReadImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize image: %w", err)
	}
	var hints map[gozxing.DecodeHintType]interface{}
	if r.TryHarder {
		hints = map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		}
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoQRCode, err)
	}
	return result.GetText(), nil
}
