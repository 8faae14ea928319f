package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mcpgate_sessions_created_total",
		Help: "Total number of MCP sessions created.",
	})

	sessionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mcpgate_sessions_closed_total",
		Help: "Total number of MCP sessions closed, by client request or transport closure.",
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mcpgate_active_sessions",
		Help: "Current number of live MCP sessions.",
	})

	toolInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcpgate_tool_invocations_total",
		Help: "Total number of tool dispatches, by tool and outcome.",
	}, []string{"tool", "outcome"})

	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcpgate_request_errors_total",
		Help: "Total number of rejected gateway requests, by reason.",
	}, []string{"reason"})
)
