// Package io reads gantt datasets and writes layout snapshots.
//
// # Dataset format
//
// A dataset lists rows with their tasks, optional timespans and an optional
// initial range. JSON and YAML are accepted; the format is picked from the
// file extension:
//
//	range:
//	  from: 2024-01-01
//	  to: 2024-01-08
//	rows:
//	  - id: backend
//	    name: Backend
//	    tasks:
//	      - name: Schema
//	        from: 2024-01-02 09:00
//	        to: 2024-01-03 17:00
//	timespans:
//	  - name: Freeze
//	    from: 2024-01-05
//	    to: 2024-01-06
//
// Dates accept RFC 3339 and the shorter layouts listed in [TimeLayouts].
// Dates without a zone are read in the location passed to the conversion
// methods. Rows, tasks and timespans without an id receive a random UUID.
//
// # Snapshots
//
// [WriteSnapshot] and [ExportSnapshot] serialize a [gantt.Snapshot] as JSON
// or YAML.
package io
