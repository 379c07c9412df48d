package ports

import "github.com/ebhcs/bulletin-board/internal/core/domain"

// Snapshot is the full active bulletin collection as of one store change.
// Consumers replace their in-memory state wholesale on every delivery;
// the latest snapshot always wins.
type Snapshot []*domain.Bulletin

// SnapshotSource is a live subscription to the bulletin collection. Each
// remote change redelivers the entire current collection, not a diff.
type SnapshotSource interface {
	// Subscribe returns a channel of snapshots and a cancel function that
	// releases the subscription. The current snapshot, when one exists, is
	// delivered immediately.
	Subscribe() (<-chan Snapshot, func())
}
