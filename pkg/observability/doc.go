/*
Package observability binds Prometheus metrics to the presenter lifecycle hooks.

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	p := lectern.New(lectern.WithLifecycleHooks(m.Hooks()))

Metrics are labelled by sub-topic only; session ids are left out to keep the
series cardinality bounded.
*/
package observability
