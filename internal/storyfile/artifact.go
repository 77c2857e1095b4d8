package storyfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"informcompile/internal/fileutil"
)

// ErrOutputMissing indicates the compiler reported success without producing a file.
var ErrOutputMissing = errors.New("story file not found")

// Artifact summarizes a file produced by a build.
type Artifact struct {
	Path  string `json:"path"`
	MD5   string `json:"md5"`
	Size  int64  `json:"size"`
	Human string `json:"human_size"`
}

// Inspect verifies that path exists and computes its checksum and size.
func Inspect(path string) (Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Artifact{}, fmt.Errorf("%w: %s", ErrOutputMissing, path)
		}
		return Artifact{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Artifact{}, fmt.Errorf("%w: %s is a directory", ErrOutputMissing, path)
	}
	sum, err := fileutil.MD5Sum(path)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Path:  path,
		MD5:   sum,
		Size:  info.Size(),
		Human: HumanSize(info.Size()),
	}, nil
}

// HumanSize renders a byte count with binary units, e.g. "1.5 KiB".
func HumanSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}
