package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "discussion"

var (
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Comments created, by kind (comment or reply).",
	}, []string{"kind"})

	CommentsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_deleted_total",
		Help:      "Comment nodes removed, cascades included.",
	})

	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_emitted_total",
		Help:      "Notification events written, by kind.",
	}, []string{"kind"})

	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "likes_toggled_total",
		Help:      "Like toggles that changed state, by action.",
	}, []string{"action"})

	ConsistencyErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consistency_errors_total",
		Help:      "Counter updates that failed after a committed tree mutation.",
	}, []string{"operation"})

	CascadeDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cascade_delete_nodes",
		Help:      "Nodes removed per cascade delete.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
)
