// Package afsconnector is a Go client for the AFS search platform web
// services.
//
// The module is organized as:
//
//   - pkg/connector: builds query URLs, sends them and decodes replies
//   - pkg/connector/search and pkg/connector/acp: search and auto-complete
//     web services
//   - pkg/reply: reply representations and decoding strategies
//   - pkg/facet: facet ordering policy
//   - pkg/config, pkg/logger, pkg/metrics, pkg/observability: configuration,
//     logging, Prometheus metrics and OpenTelemetry tracing
//   - cmd/afs: command line client
//
// # Quick Start
//
//	cfg := connector.NewConfig("afs.example.com", "42")
//	c, err := search.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := c.Send(ctx, search.NewQuery("shoes").Feed("catalog").Parameters(), connector.Caller{})
//	if msgs := r.ErrorMessages(); len(msgs) > 0 {
//		log.Println("AFS error:", msgs)
//	}
//
// Send never returns an error. Transport and decoding failures produce a
// reply whose header.error.message holds "Failed to execute request", or
// "Cannot initialize connexion" when the request cannot be built.
package afsconnector
