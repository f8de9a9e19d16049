// Package registry provides the central "glue" for the module system.
//
// The Registry maps the string identifiers used in scene files (the scene
// `kind` and the `output` block types) to the compiled Go code that
// implements them: payload factories for kinds and constructors for sinks.
//
// During application startup, modules populate the registry and the loaded
// scene is validated against it, so a typo in a scene file is reported before
// any payload is built or any sink is opened.
package registry
