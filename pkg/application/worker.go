package application

import "context"

// Worker is a long running background task started by the server binary.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}
