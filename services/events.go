package services

// Order events pushed to the manager feed.
const (
	EventOrderRegistered = "order_registered"
	EventOrderUpdated    = "order_updated"
	EventOrderDeleted    = "order_deleted"
)

// Publisher delivers events to interested listeners. Publish must return without
// waiting on slow listeners.
type Publisher interface {
	Publish(event string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
