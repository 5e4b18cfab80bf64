package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"

	"github.com/chai2010/webp"
)

const webpQuality = 85

// ProcessImage decodes an uploaded jpeg/png/webp file and re-encodes it as
// lossy webp so every stored photo shares one format and size profile.
func ProcessImage(file *multipart.FileHeader) (*bytes.Buffer, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("could not open file: %v", err)
	}
	defer src.Close()

	img, format, err := image.Decode(src)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %v", err)
	}

	switch format {
	case "jpeg", "png", "webp":
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: webpQuality}); err != nil {
		return nil, "", fmt.Errorf("could not encode image: %v", err)
	}

	return buf, "image/webp", nil
}
