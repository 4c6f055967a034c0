// Package notify implements change notification for the entity store.
//
// A Bus delivers events to handlers subscribed by topic. A Debouncer keeps one
// pending task per type name and replaces it on every Touch, so a burst of
// writes to the same type fires once, a quiet period (150ms by default) after
// the last write. Different types debounce independently.
//
// A Notifier ties both together: Changed(type) schedules the debounced task,
// which emits "change" followed by "change:<type>".
//
//	n := notify.New()
//	off := n.On(notify.TopicChange, func(e notify.Event) { log.Println(e.Type) })
//	defer off()
//	n.Changed("teams")
package notify
