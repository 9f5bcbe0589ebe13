// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train drives epochs of batches from a dataset into a compute engine.
//
// # Overview
//
// The Driver owns the loop; the Engine owns the math:
//
//	topo, _ := topology.AlexNet(16, 227, 227)
//	d, err := train.NewDriver(topo, it, engine, train.Config{
//	    Epochs:  10,
//	    Shuffle: true,
//	    Seed:    42,
//	    Logger:  slog.Default(),
//	})
//	report, err := d.Run(ctx)
//
// Each epoch restarts the iterator (optionally with a new sample order) and
// hands every batch to Engine.Step. A step error is logged and the run
// continues; errors wrapped with Fatal stop the run.
//
// DryRun is an Engine that validates batches against the topology without
// training, useful for checking a data pipeline end to end.
package train
