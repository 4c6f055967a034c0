// Package entities is the public façade of the entity store.
//
// A Client binds a schema registry, the store engine, the change notifier, a
// transport.Sender and an optional cache.Storage:
//
//	client, err := entities.New(registry, transport.NewHTTPSender(cfg.Sync))
//	res, err := client.Get(ctx, "discussions", nil)
//	all, err := client.FindAll("discussions", nil)
//	stop := client.On("change:discussions", func(notify.Event) { ... })
//
// Get, Add, Update and Remove issue one remote call each and feed the
// response into the store; the store is untouched when the call fails.
// When the id attribute is present in the object of a Get, Update or Remove
// it is appended to the endpoint path and removed from the query or body.
// Update and Remove prefer a record's "url" attribute over its id. Add posts
// the whole object to the collection endpoint.
//
// A Handle binds one record to its client and offers Related, Update and
// Save without attaching behavior to the record itself.
//
// Handler exposes read-only inspection routes and remote refreshes over
// Fiber; Feature mounts it through the loader.
package entities
