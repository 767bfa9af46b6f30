// Package screenshot saves rendered frames to disk.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned for an image format other than png or bmp.
var ErrUnknownFormat = errors.New("unknown screenshot format")

// Formats lists the supported image formats.
var Formats = []string{"png", "bmp"}

// Capture writes timestamped images into a directory.
type Capture struct {
	dir    string
	prefix string
	format string
	now    func() time.Time
}

// New creates a capture handler. An empty dir writes to the working
// directory.
func New(dir, prefix, format string) (*Capture, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = "png"
	}
	if _, err := encoder(format); err != nil {
		return nil, err
	}
	return &Capture{dir: dir, prefix: prefix, format: format, now: time.Now}, nil
}

func encoder(format string) (func(io.Writer, image.Image) error, error) {
	switch format {
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Filename returns the path the next capture would be written to.
func (c *Capture) Filename() string {
	name := fmt.Sprintf("%s_%s.%s", c.prefix, c.now().Format("2006-01-02_15-04-05.000"), c.format)
	if c.dir != "" {
		name = filepath.Join(c.dir, name)
	}
	return name
}

// FromPixels builds an image from bottom-up RGBA rows as read back from
// the framebuffer.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: %dx%d with %d bytes", width, height, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// Save writes framebuffer pixels to a new file and returns its path.
func (c *Capture) Save(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.SaveImage(img)
}

// SaveImage writes img to a new file and returns its path.
func (c *Capture) SaveImage(img image.Image) (path string, err error) {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	encode, err := encoder(c.format)
	if err != nil {
		return "", err
	}

	path = c.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := encode(f, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", c.format, err)
	}
	return path, nil
}
