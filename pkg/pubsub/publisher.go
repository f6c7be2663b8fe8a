package pubsub

import "context"

// Pack is a keyed message. The key decides the partition, so all messages of
// one user keep their order.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}
