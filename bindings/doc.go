// Package bindings resolves the named resource handles a request handler
// sees at runtime: a relational database, an object store, a user-account
// API credential, generative-AI service clients, and an OAuth client
// id/secret pair.
//
// Resource topology comes from a manifest file (TOML or JSON); credential
// strings come from the process environment, optionally layered with .env
// files. Resolve combines the two into an Env, and Bind mints a
// per-request view with a unique id:
//
//	m, _ := bindings.LoadManifest("rewind.toml")
//	s, _ := bindings.LoadSecrets(".env")
//	env, err := bindings.Resolve(ctx, m, s)
//	defer env.Close()
//
//	req := env.Bind()
//	req.Log.Info("handling", "key", key)
//
// The history package has no dependency on this package; bindings exist
// for the request-handling code around it.
package bindings
