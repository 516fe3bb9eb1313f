package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_ingested_total",
		Help: "Inbound notifications by category and gating verdict.",
	}, []string{"category", "verdict"})

	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_actions_total",
		Help: "Processed notification actions by kind and outcome.",
	}, []string{"action", "outcome"})
)
