package timestamp

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/thatpix3l/photomerge/src/format"
)

// Extensions whose embedded EXIF block goexif can read.
var exifExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jpe":  true,
	".tif":  true,
	".tiff": true,
	".dng":  true, // Adobe Digital Negative
	".nef":  true, // Nikon RAW
	".cr2":  true, // Canon RAW
	".arw":  true, // Sony RAW
	".orf":  true, // Olympus RAW
	".rw2":  true, // Panasonic RAW
	".pef":  true, // Pentax RAW
	".srw":  true, // Samsung RAW
}

// Extensions handed to the video prober, when one is configured.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
	".3gp": true,
	".avi": true,
	".mkv": true,
}

// Source tells where a timestamp came from.
type Source int

const (
	None Source = iota
	Metadata
	Filename
)

func (s Source) String() string {
	switch s {
	case Metadata:
		return "metadata"
	case Filename:
		return "filename"
	default:
		return "none"
	}
}

// Result of a timestamp lookup. Value is empty unless Found reports true;
// Reason explains an absent value.
type Result struct {
	Value  string
	Source Source
	Reason string
}

func (r Result) Found() bool {
	return r.Source != None
}

// VideoProber reads the raw recording time of a video container.
type VideoProber interface {
	CreationTime(path string) (string, error)
}

// Extractor produces YYYY_MM_DD_HH_MM_SS timestamps, preferring embedded
// metadata over a date and time found in the file name.
type Extractor struct {
	Logger *log.Logger
	Video  VideoProber  // nil skips video files in the metadata step
	Images ImageDecoder // ImageMeta when nil
}

// Extract never fails. Unreadable metadata is logged at debug level and
// carried in Result.Reason when no fallback applies, so callers warn once.
func (e Extractor) Extract(path string) Result {

	meta, err := e.metadata(path)
	if meta.Found() {
		return meta
	}

	if v, ok := format.Filename.Canonicalize(filepath.Base(path)); ok {
		if err != nil {
			e.debug("Unreadable metadata, using file name", path, err)
		}
		return Result{Value: v, Source: Filename}
	}

	if err != nil {
		e.debug("Unreadable metadata", path, err)
	}

	reasons := []string{}
	if meta.Reason != "" {
		reasons = append(reasons, meta.Reason)
	}
	reasons = append(reasons, "no date and time in file name")

	return Result{Reason: strings.Join(reasons, "; ")}
}

// metadata returns the read error alongside the absent result it caused.
func (e Extractor) metadata(path string) (Result, error) {

	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case exifExtensions[ext]:
		raw, err := exifDateTime(path)
		if err != nil {
			return Result{Reason: "cannot read EXIF metadata: " + err.Error()}, err
		}
		if raw == "" {
			return Result{Reason: "no EXIF capture time"}, nil
		}
		if v, ok := format.Exif.Canonicalize(raw); ok {
			return Result{Value: v, Source: Metadata}, nil
		}
		return Result{Reason: "malformed EXIF capture time " + strconv.Quote(raw)}, nil

	case imageMetaExtensions[ext]:
		t, err := e.images().CaptureTime(path)
		if err != nil {
			return Result{Reason: "cannot read image metadata: " + err.Error()}, err
		}
		if t.IsZero() {
			return Result{Reason: "no image capture time"}, nil
		}
		return Result{Value: t.Format(layoutCanonical), Source: Metadata}, nil

	case videoExtensions[ext] && e.Video != nil:
		raw, err := e.Video.CreationTime(path)
		if err != nil {
			return Result{Reason: "cannot read video metadata: " + err.Error()}, err
		}
		if v, ok := format.Video.Canonicalize(raw); ok {
			return Result{Value: v, Source: Metadata}, nil
		}
		return Result{Reason: "malformed video creation time " + strconv.Quote(raw)}, nil
	}

	return Result{}, nil
}

// Wall clock as recorded; no zone conversion.
const layoutCanonical = "2006_01_02_15_04_05"

func (e Extractor) images() ImageDecoder {
	if e.Images == nil {
		return ImageMeta{}
	}
	return e.Images
}

func (e Extractor) debug(msg string, path string, err error) {
	if e.Logger != nil {
		e.Logger.Debug(msg, "path", path, "err", err)
	}
}

// Original capture time wins over the generic modification time.
var exifTimeFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTime}

// exifDateTime returns the raw EXIF time string, or "" when the file has EXIF but no time.
func exifDateTime(path string) (string, error) {

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return "", err
	}

	for _, field := range exifTimeFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		if s = strings.Trim(s, " \x00"); s != "" {
			return s, nil
		}
	}

	return "", nil
}
