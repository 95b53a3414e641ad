package domain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	broadcastsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_broadcasts_delivered_total",
		Help: "Project change signals handed to a subscriber channel.",
	})
	broadcastsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_broadcasts_dropped_total",
		Help: "Project change signals dropped because the subscriber was full.",
	})
	mediaBytesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_media_bytes_stored_total",
		Help: "Bytes written to the blob area.",
	})
	requestsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_requests_resolved_total",
		Help: "Requests resolved, by decision.",
	}, []string{"decision"})
)
