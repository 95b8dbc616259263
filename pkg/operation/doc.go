/*
Package operation runs long file operations so they can be tracked and cancelled.

	+-------------+        TryRegister(id)        +-----------+
	|   Runner    | ----------------------------> | Registry  |
	| (sync/async)| <---- ctx, release / error -- | (by id)   |
	+------+------+                               +-----+-----+
	       |                                            ^
	   Execute(ctx)                          Cancel(id) |
	       |                                            |
	+------+------+                               +-----+-----+
	|  Operation  | -- ListProgress/RenameProgress|  caller   |
	+-------------+                               +-----------+

🎯 Purpose:
- Give each listing, rename or delete run an id
- Cancel a run by id, including runs that have not started yet
- Describe progress with small tagged events

🔄 Flow:
1. The runner registers the id and gets a cancellable context
2. The operation runs with that context and reports progress
3. The registration is released when the operation returns

⚡ Cancellation:
- Cancel on a running id cancels its context
- Cancel on an unknown id leaves a tombstone, so the next TryRegister for
  that id fails with ErrCancelled and clears the tombstone
- Tombstones older than a minute are swept once the registry holds more than
  a hundred entries

🔍 Example:

	reg := operation.NewRegistry()
	runner := operation.NewRunner(&logger, reg, false)

	err := runner.Run(ctx, "list-1", operation.Func(func(ctx context.Context) error {
		_, err := provider.List(ctx, dir, fsys.ListOptions{})
		return err
	}))
*/
package operation
