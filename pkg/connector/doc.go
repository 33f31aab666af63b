// Package connector sends queries to AFS web services.
//
// A Connector composes the service configuration with caller parameters,
// builds the query URL, performs an HTTP GET and decodes the JSON reply with
// a reply.Decoder. Failures never surface as errors: the reply is then the
// synthetic error envelope
//
//	{"header":{"error":{"message":["Failed to execute request"]}}}
//
// decoded like any other reply, so callers handle remote and local errors
// the same way.
//
// Basic usage:
//
//	cfg := connector.NewConfig("afs.example.com", "42")
//	c, err := connector.NewMap(cfg, connector.WebService("search"))
//	if err != nil {
//		return err
//	}
//	r := c.Send(ctx, connector.ParametersOf("afs:query", "shoes"), connector.Caller{})
//	if reply.IsError(r) {
//		log.Println(reply.ErrorMessages(r))
//	}
package connector
