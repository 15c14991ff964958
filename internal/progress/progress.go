// Package progress defines the messages workers use to report how far
// through their range they are.
package progress

// ProgressUpdate is a progress report from one worker.
type ProgressUpdate struct {
	// WorkerIndex identifies the reporting worker.
	WorkerIndex int
	// Value is the completed fraction of the worker's range, in [0, 1].
	Value float64
}

// ProgressCallback receives the completed fraction of a single worker's range.
type ProgressCallback func(value float64)

// NoopCallback discards progress.
func NoopCallback(float64) {}

// ChannelCallback returns a callback that forwards updates for worker index
// to ch. Sends never block: when the consumer lags the update is dropped.
// A nil channel yields NoopCallback.
func ChannelCallback(ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return NoopCallback
	}
	return func(value float64) {
		select {
		case ch <- ProgressUpdate{WorkerIndex: index, Value: value}:
		default:
		}
	}
}
