// Package labels persists the per-subject label table.
//
// The table is a CSV file with the fixed header
//
//	Batch,Subject,time alive,time of metamorphosis
//
// and one row per (Batch, Subject) pair. Label cells hold a frame number or
// are empty when unset. Every mutation rewrites the whole file atomically, and
// a Store opened with Open holds an exclusive lock on "<file>.lock" so only one
// labeling session writes the table at a time.
package labels
