// Package task provides background task processing for study material
// generation: a persistent task queue, a worker pool with crash recovery,
// and the task type that runs the per-material generation pipeline.
package task
