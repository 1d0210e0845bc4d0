// Package inkwell is the Inkwell blogging backend.
//
// The binaries live under cmd/ (server, migrate, seed, reconcile-counters, cli).
// Domain logic is split across internal/ packages:
//
//   - internal/auth: identity token verification and the stored-user resolver
//   - internal/posts: post store, slugs and public reads
//   - internal/engagement: likes, comments and follows with their counters
//   - internal/feed: following feed, trending ranking and suggested users
//   - internal/dashboard: author analytics and event check-in dashboards
//   - internal/handlers: HTTP handlers and routes
//   - internal/kernel: dependency wiring
package inkwell
