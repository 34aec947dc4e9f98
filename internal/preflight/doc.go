// Package preflight provides readiness checks for the filesystem paths and
// external tools medialib depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll and CheckSystemDeps at startup and logs any
//     failure. A failed check does not stop the dispatcher: requests whose
//     fetch cannot succeed are marked failed individually.
//   - The CLI "medialib status" and "medialib queue health" commands render
//     the same results for the operator.
package preflight
