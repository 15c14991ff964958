// Package orchestration coordinates a fan-out/fan-in run: it partitions the
// data range, spawns one worker per range, waits for every partial sum and
// aggregates them into a Report.
package orchestration
