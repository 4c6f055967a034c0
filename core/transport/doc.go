// Package transport is the sync adapter used by the entity store to talk to
// the remote REST API.
//
// A Sender performs one request and resolves only on a 2xx status; any other
// status is returned as a *TransportError matching ErrTransportFailure.
// Serialize encodes GET parameters as a querystring.
package transport
