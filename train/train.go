// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import (
	"github.com/born-ml/netspec/internal/dataset"
	"github.com/born-ml/netspec/internal/topology"
	"github.com/born-ml/netspec/internal/train"
)

// Engine is the compute backend the driver feeds.
type Engine = train.Engine

// StepResult is what an engine reports for a successful step.
type StepResult = train.StepResult

// OrderFunc returns the sample order for an epoch.
type OrderFunc = train.OrderFunc

// Config controls a training run.
type Config = train.Config

// Driver runs the epoch loop.
type Driver = train.Driver

// Report summarizes a run.
type Report = train.Report

// EpochReport summarizes one epoch.
type EpochReport = train.EpochReport

// StepError names the epoch and batch of a fatal step.
type StepError = train.StepError

// DryRun validates batches without training.
type DryRun = train.DryRun

// ErrFatalStep marks engine errors that stop a run.
var ErrFatalStep = train.ErrFatalStep

// NewDriver checks that it produces what topo consumes and returns a driver.
func NewDriver(topo *topology.Topology, it *dataset.Iterator, engine Engine, cfg Config) (*Driver, error) {
	return train.NewDriver(topo, it, engine, cfg)
}

// NewDryRun returns a dry-run engine.
func NewDryRun() *DryRun {
	return train.NewDryRun()
}

// Fatal wraps err so that the driver stops the run.
//
// Example:
//
//	return train.StepResult{}, train.Fatal(fmt.Errorf("device lost: %w", err))
func Fatal(err error) error {
	return train.Fatal(err)
}
