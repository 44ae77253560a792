// Package sessionresolver implements the session and role-resolution
// protocol inside the identity-access context.
//
// The module owns the authenticated-identity lifecycle: a one-shot session
// fetch at startup, a stream of sign-in/sign-out/token-refresh events that
// may overlap that fetch, and the admin-priority role policy applied on every
// genuine sign-in. It exposes a single consistent session snapshot to the
// rest of the application and keeps backend access behind ports and adapters.
package sessionresolver
