package repository

import "context"

// ChangeFeed fans out "collection changed" notifications between processes
type ChangeFeed interface {
	Publish(ctx context.Context, collection string) error
	Subscribe(ctx context.Context, collection string, onChange func()) (func(), error)
}
