// Package pkg provides the libraries behind ganttgrid, the layout engine of
// a Gantt chart.
//
// # Overview
//
// Ganttgrid turns a date range into a grid of columns and places rows,
// tasks and timespans on it. The pkg directory is organized into three
// areas:
//
//  1. Layout: [calendar], [column], [header], [search] and [gantt]
//  2. Data: [io] (datasets and snapshots) and [config] (view settings)
//  3. Infrastructure: [cache], [pipeline], [observability], [errors] and
//     [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	dataset.yaml / dataset.json
//	         ↓
//	    [io] package (parse, assign ids, convert dates)
//	         ↓
//	    [gantt] package (range, columns, headers, task geometry)
//	         ↓
//	    [gantt.Snapshot] (JSON/YAML, cached by [pipeline])
//
// # Quick Start
//
// Build a grid and locate a date on it:
//
//	import (
//	    "time"
//
//	    "github.com/matzehuels/ganttgrid/pkg/gantt"
//	)
//
//	opts := gantt.DefaultOptions()
//	opts.From = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
//	opts.To = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
//	g, err := gantt.New(opts)
//	if err != nil {
//	    return err
//	}
//	x, _ := g.PositionByDate(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
//
// Lay out a dataset file with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	in, err := runner.LoadFile(ctx, "plan.yaml")
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Layout(ctx, in, pipeline.DefaultOptions())
package pkg
