// Package topology declares feed-forward layer topologies independently of
// any compute backend and validates their shape arithmetic.
//
// Layers (Convolution, Pooling, FullyConnected, Activation) are plain data.
// Infer folds a layer over an input Shape; Builder applies Infer stage by
// stage and produces an immutable Topology.
package topology
