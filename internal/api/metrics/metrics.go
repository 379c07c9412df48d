// Package metrics defines and registers all custom Prometheus metrics for
// the bulletin board API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bulletin"

// ── Bulletin metrics ──────────────────────────────────────────────────────────

// BulletinsCreatedTotal counts newly posted bulletins.
// Label:
//   - category: jobs, housing, events, services, resource, classes, announcements
var BulletinsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulletins_created_total",
		Help:      "Total number of bulletins posted, by category.",
	},
	[]string{"category"},
)

// BulletinsDeletedTotal counts soft-deleted bulletins.
var BulletinsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulletins_deleted_total",
		Help:      "Total number of bulletins soft-deleted.",
	},
)

// ModerationWarningsTotal counts content warnings surfaced to posters.
var ModerationWarningsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_warnings_total",
		Help:      "Total number of moderation warnings attached to submissions.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginFailuresTotal counts rejected login attempts.
// Label:
//   - reason: "credentials", "locked_out", "disabled"
var LoginFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of failed login attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Image metrics ─────────────────────────────────────────────────────────────

// ImagesOptimizedTotal counts optimizer runs.
// Label:
//   - result: "ok", "cached", "rejected"
var ImagesOptimizedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_optimized_total",
		Help:      "Total number of image optimization requests, by result.",
	},
	[]string{"result"},
)

// ImageOptimizeDuration measures how long one optimization pass takes.
var ImageOptimizeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_optimize_duration_seconds",
		Help:      "Duration of image resize/re-encode, cache misses only.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Live stream metrics ───────────────────────────────────────────────────────

// StreamSubscribers tracks currently connected snapshot stream clients.
var StreamSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_subscribers",
		Help:      "Current number of connected live snapshot subscribers.",
	},
)
