// Package textutil provides text helpers for filesystem-safe names and
// human-facing labels.
//
// Owner names arrive from users and external callers in any script or case.
// OwnerDirName folds them to a stable ASCII directory segment so that
// "José" and "jose" land in the same library folder.
package textutil
