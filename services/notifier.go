package services

// Notifier pushes change notifications to connected displays. Satisfied by
// *realtime.Hub; fakes stand in for it in tests.
type Notifier interface {
	Publish(eventType string, payload interface{})
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Publish(string, interface{}) {}
