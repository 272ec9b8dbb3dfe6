// Package pipeline turns a drop folder into converted WebP files.
//
// The pieces, leaf first:
//
//   - Discover lists eligible images in the source folder (non-recursive,
//     extension allow-list, sorted).
//   - FileConverter converts one file: decode, normalize, compress under
//     the budget, write atomically, reattach metadata, delete the source.
//     Every error becomes a Result; nothing panics or escapes.
//   - Runner processes a batch sequentially, quarantines failures and
//     accumulates RunStats.
//   - Supervisor polls the folder on an interval until its context is
//     cancelled. Cancellation is only observed between batches, so an
//     in-flight file always completes.
package pipeline
