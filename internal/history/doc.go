// Package history records whole-document snapshots of an editing surface and
// replays them for undo/redo while keeping the user's selection in place.
//
// # Instances
//
// Every attached surface gets an Instance holding two bounded stacks of
// Snapshots and the "current" snapshot. Capturing follows a push-previous,
// adopt-current order: when the surface content differs from current, the
// old current is pushed onto the undo stack and the new content becomes
// current.
//
//	registry := NewRegistry(DefaultLimits())
//	inst, _ := registry.Create("main", surface, time.Now())
//
// # Change detection
//
// A Detector watches a surface's edit-trigger signals. Bursts are debounced
// (default 100ms) and captures are rate limited (default 300ms between
// captures). Both windows trade undo granularity for memory; neither is a
// precision guarantee.
//
//	detector := NewDetector(sched, logger)
//	detector.Watch(inst)
//
// # Replay
//
// A Controller performs undo/redo in four phases:
//
//	Idle -> CapturingSelection -> Applying -> RestoringSelection -> Idle
//
// The selection is converted to linear offsets before the snapshot replaces
// the document, restored on the next scheduler turn, and recording is
// re-enabled on the turn after that. While a replay is in flight the
// instance's mode is Replaying and every signal is ignored.
//
// # Threading
//
// Instances, detectors and controllers are confined to the scheduler's
// goroutine. Only the Registry may be shared.
package history
