package metrics

// Attribute keys shared by the otel instruments.
const (
	AttrEndpoint = "endpoint"
	AttrOutcome  = "outcome"
)
