// Package compute issues start commands to the processing target.
package compute

import "context"

// Dispatcher starts one compute target. Starting a target that is already
// running is not an error for any implementation.
type Dispatcher interface {
	Start(ctx context.Context, targetID string) error
}
