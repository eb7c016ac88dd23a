package telemetry

var NewOTelTracer = newOTelTracer
