package uploads

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/dotoole/photofolio-backend/pkg/config"
	"github.com/gabriel-vasile/mimetype"
)

// Variant is one encoded rendition of the selected file.
type Variant struct {
	Data        []byte
	ContentType string
}

const minJPEGQuality = 40

// DeriveVariants produces the bounded full-size rendition and a thumbnail.
// Both are re-encoded, which strips EXIF from the stored bytes. An error
// means the caller should fall back to uploading the original file.
func DeriveVariants(data []byte, cfg config.MediaConfig) (*Variant, *Variant, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("decoding image: %w", err)
	}

	full, err := encodeBounded(src, cfg.FullMaxDimension, cfg.FullMaxBytes, cfg.JPEGQuality)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding full variant: %w", err)
	}
	thumb, err := encodeBounded(src, cfg.ThumbMaxDimension, cfg.ThumbMaxBytes, cfg.JPEGQuality)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	return full, thumb, nil
}

// DetectContentType sniffs the MIME type from the file bytes.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// encodeBounded fits the image inside maxDim and re-encodes as JPEG, walking
// the quality down until the output fits maxBytes.
func encodeBounded(src image.Image, maxDim int, maxBytes int64, quality int) (*Variant, error) {
	img := src
	bounds := img.Bounds()
	if maxDim > 0 && (bounds.Dx() > maxDim || bounds.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	if quality <= 0 || quality > 100 {
		quality = 85
	}

	for q := quality; q >= minJPEGQuality; q -= 10 {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return nil, err
		}
		if maxBytes <= 0 || int64(buf.Len()) <= maxBytes {
			return &Variant{Data: buf.Bytes(), ContentType: "image/jpeg"}, nil
		}
	}
	return nil, fmt.Errorf("image does not fit %d bytes at any quality", maxBytes)
}
