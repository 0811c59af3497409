package timestamp

import (
	"os"
	"time"

	"github.com/evanoberholster/imagemeta"
)

// Containers goexif cannot open: ISO BMFF images, PNG eXIf chunks, WebP, Canon CR3.
var imageMetaExtensions = map[string]bool{
	".heic": true,
	".heif": true,
	".avif": true,
	".cr3":  true,
	".png":  true,
	".webp": true,
}

// ImageDecoder reads the capture time embedded in an image container.
// A zero time with a nil error means the container carries no capture time.
type ImageDecoder interface {
	CaptureTime(path string) (time.Time, error)
}

// ImageMeta decodes capture times with imagemeta.
type ImageMeta struct{}

func (ImageMeta) CaptureTime(path string) (time.Time, error) {

	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := imagemeta.Decode(f)
	if err != nil {
		return time.Time{}, err
	}

	if t := x.DateTimeOriginal(); !t.IsZero() {
		return t, nil
	}

	return x.CreateDate(), nil
}
