/*
Package observability provides tools for monitoring Monte Carlo batches.

It turns the runner's lifecycle hooks into Prometheus metrics and structured
log lines. Both are plain domain.BatchHooks values and can be merged:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LoggingHooks(logger))
	r := runner.New(runner.WithHooks(hooks))
*/
package observability
