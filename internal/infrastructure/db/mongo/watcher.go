package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

// Publisher receives the full active collection after every store change.
type Publisher interface {
	Publish(snapshot ports.Snapshot)
}

// Watcher tails the bulletins change stream and republishes the entire
// active collection on every change. Snapshots always replace prior state
// wholesale; consumers never see diffs.
type Watcher struct {
	repo *BulletinRepository
	pub  Publisher
	log  zerolog.Logger
}

func NewWatcher(repo *BulletinRepository, pub Publisher, log zerolog.Logger) *Watcher {
	return &Watcher{repo: repo, pub: pub, log: log}
}

// Run publishes an initial snapshot, then blocks streaming changes until
// ctx is cancelled. The change stream is reopened with backoff on failure;
// a lost event is harmless because every wake-up reloads the full set.
func (w *Watcher) Run(ctx context.Context) {
	w.publishSnapshot(ctx)

	for ctx.Err() == nil {
		stream, err := w.repo.Collection().Watch(ctx, mongo.Pipeline{})
		if err != nil {
			w.log.Warn().Err(err).Msg("bulletin change stream unavailable, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for stream.Next(ctx) {
			w.publishSnapshot(ctx)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			w.log.Warn().Err(err).Msg("bulletin change stream interrupted, reopening")
		}
		_ = stream.Close(ctx)
	}
}

func (w *Watcher) publishSnapshot(ctx context.Context) {
	bulletins, err := w.repo.ListActive(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to reload bulletins for snapshot")
		return
	}
	w.pub.Publish(bulletins)
}
