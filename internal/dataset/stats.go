package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"
)

// EstimateChannelStats computes the per-channel mean and standard deviation
// over at most maxBatches batches (0 means the whole epoch).
//
// The iterator is restarted with its current order before and after the
// pass, so it is ready for training afterwards. The result can be assigned
// to ImageDecoder.Normalize.
func EstimateChannelStats(ctx context.Context, it *Iterator, maxBatches int) ([]ChannelStat, error) {
	shape := it.opts.Shape
	if shape.IsFlat() {
		return nil, fmt.Errorf("channel stats need a (channels, height, width) shape, got %s", shape)
	}
	if err := it.Restart(nil); err != nil {
		return nil, err
	}
	defer func() { _ = it.Restart(nil) }()

	channels := shape.Channels()
	plane := shape.Height() * shape.Width()
	values := make([][]float64, channels)

	for n := 0; maxBatches <= 0 || n < maxBatches; n++ {
		batch, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := 0; i < batch.Size; i++ {
			sample := batch.Sample(i)
			for c := 0; c < channels; c++ {
				for _, v := range sample[c*plane : (c+1)*plane] {
					values[c] = append(values[c], float64(v))
				}
			}
		}
	}

	if len(values[0]) == 0 {
		return nil, fmt.Errorf("%w: no samples decoded", ErrEmptyDataset)
	}
	out := make([]ChannelStat, channels)
	for c := range out {
		mean, std := stat.PopMeanStdDev(values[c], nil)
		out[c] = ChannelStat{Mean: mean, Std: std}
	}
	return out, nil
}
