package dataset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/born-ml/netspec/internal/topology"
)

// Decoder turns a sample identifier into a flat CHW float32 array of the
// shape the iterator was configured with.
//
// Implementations must be safe for concurrent use. Per-sample failures are
// returned as ordinary errors; an error wrapping ErrDatasetUnavailable
// aborts iteration.
type Decoder interface {
	Decode(ctx context.Context, id string) ([]float32, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, id string) ([]float32, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(ctx context.Context, id string) ([]float32, error) {
	return f(ctx, id)
}

// ChannelStat is the mean and standard deviation of one channel.
type ChannelStat struct {
	Mean float64
	Std  float64
}

// ImageDecoder decodes image files located by a Locator into CHW float32
// arrays.
//
// Images are resampled to Height x Width with bilinear interpolation and
// scaled to [0, 1]. With one channel the output is luminance; with three it
// is RGB. If Normalize is set, each channel c becomes
// (v - Normalize[c].Mean) / Normalize[c].Std.
//
// Supported formats: JPEG, PNG, GIF, BMP, TIFF, WebP.
type ImageDecoder struct {
	locator   Locator
	shape     topology.Shape
	Normalize []ChannelStat
}

// NewImageDecoder creates a decoder producing samples of the given
// (channels, height, width) shape. Channels must be 1 or 3.
func NewImageDecoder(locator Locator, shape topology.Shape) (*ImageDecoder, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.IsFlat() {
		return nil, fmt.Errorf("%w: image shape must be (channels, height, width), got %s", topology.ErrIncompatibleShape, shape)
	}
	if c := shape.Channels(); c != 1 && c != 3 {
		return nil, fmt.Errorf("%w: image decoder supports 1 or 3 channels, got %d", topology.ErrIncompatibleShape, c)
	}
	return &ImageDecoder{locator: locator, shape: shape.Clone()}, nil
}

// Shape returns the per-sample output shape.
func (d *ImageDecoder) Shape() topology.Shape {
	return d.shape.Clone()
}

// Decode implements Decoder.
func (d *ImageDecoder) Decode(ctx context.Context, id string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.locator.Path(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if _, statErr := os.Stat(d.locator.Root()); statErr != nil {
			return nil, &SourceError{Kind: ErrDatasetUnavailable, Op: "stat", Path: d.locator.Root(), Err: statErr}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("decode %s (%s): empty image", path, format)
	}

	out := d.toCHW(img)
	if d.Normalize != nil {
		if err := normalize(out, d.shape, d.Normalize); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *ImageDecoder) toCHW(img image.Image) []float32 {
	c, h, w := d.shape.Channels(), d.shape.Height(), d.shape.Width()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	plane := h * w
	out := make([]float32, c*plane)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := dst.RGBAAt(x, y)
			i := y*w + x
			if c == 1 {
				gray := color.GrayModel.Convert(px).(color.Gray)
				out[i] = float32(gray.Y) / 255.0
				continue
			}
			out[i] = float32(px.R) / 255.0
			out[plane+i] = float32(px.G) / 255.0
			out[2*plane+i] = float32(px.B) / 255.0
		}
	}
	return out
}

func normalize(sample []float32, shape topology.Shape, stats []ChannelStat) error {
	c := shape.Channels()
	if len(stats) != c {
		return fmt.Errorf("normalize: %d channel stats for %d channels", len(stats), c)
	}
	plane := shape.Height() * shape.Width()
	for ch, st := range stats {
		if st.Std <= 0 {
			return errors.New("normalize: standard deviation must be > 0")
		}
		mean, std := float32(st.Mean), float32(st.Std)
		for i := ch * plane; i < (ch+1)*plane; i++ {
			sample[i] = (sample[i] - mean) / std
		}
	}
	return nil
}
