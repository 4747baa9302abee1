package story

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImagePayload is the single normalized form every uploaded image reduces to
// before it reaches the model API.
type ImagePayload struct {
	MIME string
	Data []byte
}

// ErrUnsupportedImage marks uploads that are not a usable raster image.
// Handlers map it to a user-input error.
var ErrUnsupportedImage = errors.New("unsupported image type")

// jpegQualities is the descending re-encode ladder tried until the payload
// fits the byte budget.
var jpegQualities = []int{85, 75, 65, 55, 45, 35}

// NormalizeImage sniffs the upload's real content type, auto-orients and
// downscales oversized images, and re-encodes as JPEG until the payload fits
// under maxBytes. Images already within bounds pass through untouched; webp
// passes through because it cannot be re-encoded here.
func NormalizeImage(data []byte, maxSide, maxBytes int) (*ImagePayload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrUnsupportedImage)
	}

	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg", "image/gif":
	case "image/webp":
		if len(data) > maxBytes {
			return nil, fmt.Errorf("webp image exceeds %d bytes and cannot be recompressed", maxBytes)
		}
		return &ImagePayload{MIME: mime, Data: data}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= maxSide && cfg.Height <= maxSide && len(data) <= maxBytes {
		return &ImagePayload{MIME: mime, Data: data}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width > maxSide || cfg.Height > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	for _, q := range jpegQualities {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return nil, fmt.Errorf("encode image: %w", err)
		}
		if buf.Len() <= maxBytes {
			return &ImagePayload{MIME: "image/jpeg", Data: append([]byte(nil), buf.Bytes()...)}, nil
		}
	}
	return nil, fmt.Errorf("image still exceeds %d bytes at lowest quality", maxBytes)
}
