// Package syncmap offers a lightweight, generic, concurrency-safe map guarded
// by a sync.RWMutex. It backs the per-endpoint schema catalogs and the
// endpoint/proxy tables of the service.
package syncmap
