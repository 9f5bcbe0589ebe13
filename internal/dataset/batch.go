package dataset

import "slices"

// Batch is one training step's worth of decoded samples.
//
// Features is row-major [Size, C, H, W]; Features for sample i is
// Features[i*C*H*W : (i+1)*C*H*W] and its label is Labels[i]. A Batch is
// freshly allocated for every step and owned by its consumer.
type Batch struct {
	Index    int       // Window number within the epoch
	Size     int       // Number of samples, <= the configured batch size
	Shape    []int     // [Size, C, H, W]
	Features []float32 // Row-major feature array
	Labels   []int32   // Class indices, len == Size
	IDs      []string  // Sample identifiers, len == Size

	// Failures lists samples of this window that failed to decode and
	// were left out.
	Failures []DecodeFailure
}

// SampleLen returns the number of scalars per sample (C*H*W).
func (b *Batch) SampleLen() int {
	if b.Size == 0 {
		return 0
	}
	return len(b.Features) / b.Size
}

// Sample returns the features of the i-th sample. The slice aliases
// Features.
func (b *Batch) Sample(i int) []float32 {
	n := b.SampleLen()
	return b.Features[i*n : (i+1)*n]
}

// Clone returns a deep copy of the batch.
func (b *Batch) Clone() *Batch {
	c := *b
	c.Shape = slices.Clone(b.Shape)
	c.Features = slices.Clone(b.Features)
	c.Labels = slices.Clone(b.Labels)
	c.IDs = slices.Clone(b.IDs)
	c.Failures = slices.Clone(b.Failures)
	return &c
}
