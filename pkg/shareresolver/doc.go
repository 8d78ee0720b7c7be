// Package shareresolver turns OS "open/share file" events into local file
// paths and hands them to an application runtime over a named method channel.
//
// A Resolver accepts an Event (a view or send request carrying either a direct
// URI or a stream-extra URI), resolves the URI to a readable local path and
// delivers it through a Channel. "file" URIs resolve to their path with no I/O.
// "content" URIs are copied out of a ContentResolver into the cache directory.
// Providers for memory, filesystem and S3 content live under provider/.
//
// Delivery
//
// The Channel keeps at most one pending path in a Mailbox. A successful
// resolution overwrites it and, when a Messenger is attached, pushes
// "onNewIntent" with the path. Consumers that start late pull the value with
// "getInitialPath" and acknowledge it with "consumePendingPath".
//
// Failures never propagate to the event source. Handle reports them in its
// Outcome and the caller decides to drop them.
package shareresolver
