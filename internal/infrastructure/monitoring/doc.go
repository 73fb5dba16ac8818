/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the registry
service, tracking HTTP requests, publishes, downloads, and index size.

# Features

- HTTP request metrics (latency, throughput, size)
- Publish metrics (count by kind and status, bytes written)
- Download metrics (count by kind)
- Index size gauges (packages, plugins)
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.RecordPublish("packages", "ok", size)
	metrics.RecordDownload("plugins")
	metrics.SetIndexSize(12, 4)

# Metrics Endpoint

Each collector carries its own Prometheus registry. Expose it via:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
