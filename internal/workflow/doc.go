// Package workflow drains the download queue.
//
// The Dispatcher polls the queue store on a fixed interval. Each cycle lists
// every pending request in id order, resolves the owner's destination
// directory, claims the row with a pending to in_progress compare-and-set, and
// hands it to a worker. Workers run concurrently, optionally bounded by
// workflow.max_concurrent_fetches, and the cycle waits for all of them before
// the dispatcher sleeps again. Cycles never overlap, so a request is fetched
// at most once per claim.
//
// A worker runs exactly one request: it calls the configured fetch.Fetcher
// with a context detached from daemon shutdown and records done or failed on
// its own row. Fetch errors and panics end up as a failed row and never reach
// the dispatcher loop. Requests whose owner has no registered directory are
// failed by the dispatcher without spawning a worker.
//
// Store failures abandon the current cycle. The loop logs them and retries
// after workflow.error_retry_interval; it only exits when its context is
// cancelled. Stop returns without waiting for in-flight fetches, which keep
// running and record their outcome when they finish.
package workflow
