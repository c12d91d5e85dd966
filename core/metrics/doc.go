// Package metrics defines the sinks that record planner runs. A run is
// reported as a PlanEvent; sinks that also implement ChargeStopRecorder get
// one event per charging decision of the selected plan. Implementations
// such as the Prometheus and InfluxDB sinks live in infra/metrics and
// register themselves with the factory; NewMetricsSink returns a MultiSink
// automatically when several sinks are configured.
package metrics
