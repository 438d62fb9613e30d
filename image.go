package colorize

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/esimov/colorize/utils"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decoder turns an asset path into a decoded image.
// Implementations are called from their own goroutine.
type Decoder interface {
	Decode(ctx context.Context, path string) (image.Image, error)
}

// FileDecoder decodes images from the local file system.
// JPEG, PNG, GIF, BMP and WebP files are supported.
type FileDecoder struct{}

var _ Decoder = FileDecoder{}

// Decode sniffs the file content and decodes it in case it is an image.
func (FileDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the image file")
	}
	if !strings.Contains(ctype, "image") {
		return nil, errors.Errorf("%s is not an image file (%s)", path, ctype)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the image file")
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger().Warn("could not close the opened file", "path", path, "error", err)
		}
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}
