// Package events provides types and interfaces for decoupled task creation.
//
// Services emit a TaskRequestEvent when a document needs study materials
// generated, without knowing which handler will process it. Handlers in the
// task package turn those events into background tasks. This keeps the
// service layer free of a direct dependency on the task machinery and
// avoids circular imports.
//
// The primary components are:
// - TaskRequestEvent: a request to create a background task
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
package events
