package ff

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/tidwall/gjson"
)

// ErrNoCreationTime is returned when ffprobe output carries no recording time.
var ErrNoCreationTime = errors.New("tag \"creation_time\" not embedded in video")

// Places a recording time may be stored, tried in order.
var creationTimePaths = []string{
	"format.tags.creation_time",
	"streams.0.tags.creation_time",
}

// Prober reads container metadata by running ffprobe.
type Prober struct {
	Binary string // ffprobe executable, looked up in PATH when empty
}

func (p Prober) binary() string {
	if p.Binary == "" {
		return "ffprobe"
	}
	return p.Binary
}

func probeArgs(path string) []string {
	return []string{
		path,
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		"-hide_banner",
		"-loglevel", "fatal",
	}
}

// CreationTime returns the raw creation_time tag of the video at path.
func (p Prober) CreationTime(path string) (string, error) {

	out, err := exec.Command(p.binary(), probeArgs(path)...).Output()
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", path, err)
	}

	return ParseCreationTime(out)
}

// ParseCreationTime extracts the creation_time tag from ffprobe JSON output.
func ParseCreationTime(probeJSON []byte) (string, error) {

	if !gjson.ValidBytes(probeJSON) {
		return "", errors.New("ffprobe output is not valid JSON")
	}

	for _, path := range creationTimePaths {
		v := gjson.GetBytes(probeJSON, path)
		if v.Type == gjson.String && v.String() != "" {
			return v.String(), nil
		}
	}

	return "", ErrNoCreationTime
}
