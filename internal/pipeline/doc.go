// Package pipeline plans and runs a conversion batch.
//
// Planning loads every requested manifest, checks for output and symbol
// collisions, resolves the external tools each non-empty kind needs, and
// binds one conversion strategy per job. Any failure while planning aborts
// the batch before a single file is written. Running executes the jobs in
// manifest order (images, sounds, fonts) under a process lock; a failing job
// is recorded and the batch continues.
package pipeline
