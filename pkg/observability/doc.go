/*
Package observability binds the engine's lifecycle hooks to Prometheus collectors and to
structured logs.

Both producers return a domain.LifecycleHooks value; combine them with
LifecycleHooks.Merge and pass the result to parley.WithLifecycleHooks.
*/
package observability
