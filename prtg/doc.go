// Package prtg implements a client for the PRTG Network Monitor API.
//
// The package is organized into two layers:
//
//   - Client: the transport. It merges the API token into every request,
//     applies the retry policy to GET requests, and classifies HTTP and
//     transport failures into structured error types.
//   - Operations: the query verbs (list/get/get-many/move/historic data)
//     with filter translation, pagination defaults and partial-failure
//     batch semantics.
//
// PRTG's table API is loosely typed: object IDs arrive as numbers or
// strings depending on server version, tags come as a single
// space-delimited string, and sensor counts are string columns. The model
// types in this package normalize all of that during decoding and silently
// drop columns they do not declare, so new server versions cannot break the
// decode.
//
// # Error Handling
//
// Failures are classified into AuthenticationError (401), NotFoundError
// (404 or an empty result for a targeted lookup), APIError (any other >=400
// status, or a semantically failed move), TransportError (DNS, connection,
// TLS and timeout failures) and DateRangeError (a historic-data range that
// exceeds the server limits, rejected before any request is issued). Every
// type carries a Kind discriminator for structured presentation:
//
//	var notFound *prtg.NotFoundError
//	if errors.As(err, &notFound) {
//		// may be expected during batch fan-out
//	}
package prtg
