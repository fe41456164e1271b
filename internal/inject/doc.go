// Package inject implements the dependency resolver used to fill handler
// parameters at dispatch time.
//
// A Resolver maps identifiers to values. An identifier is either a bare name
// (string) or a type (reflect.Type). Resolvers layer: Overlay derives a child
// resolver that sees every parent entry plus its own, with its own entries
// shadowing the parent's on collision. Overlays never mutate the parent, so
// application-scoped, transaction-scoped and call-scoped dependencies can
// stack without interference.
//
// Handler invocation goes through Call, which binds positional arguments to
// the leading parameters and resolves the rest from the resolver. A plain
// parameter resolves by its exact declared type. A struct parameter carrying
// `inject` tags is treated as a dependency bundle: each tagged field resolves
// by tag name first, then by field type; the "optional" tag suffix keeps the
// zero value when nothing matches. Anything else fails with
// *UnknownDependencyError naming the parameter.
package inject
