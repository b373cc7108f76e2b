package mold

// UpdatedEvent is published after a mold's configuration changes.
type UpdatedEvent struct {
	Mold Mold
}
