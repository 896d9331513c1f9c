/*
Package session keeps a registry of independent presenters, one per session.

Every operation on a session runs while holding that session's lock, so a
presenter (which is not safe for concurrent use) only ever has a single writer
even when HTTP requests, MCP calls and file watchers target it at once.
Locks are reference counted and removed as soon as no caller holds them.
*/
package session
