// # insertdocs
//
// `insertdocs` fills reStructuredText documents with API documentation. A
// directive marks where documentation belongs; insertdocs renders the named
// object's docstring into a marked block right below it and then turns every
// mention of a documented name in the prose into a `:ref:` link.
//
// Key capabilities:
//
//   - render modules, classes, functions, methods, properties, plain text
//     and sequences of names as Sphinx-style reStructuredText.
//   - idempotent runs: a second insert leaves documents byte-identical.
//   - `clear` restores the bare directives and strips generated references.
//   - names resolve against TOML namespace files and Go source packages.
//   - dry runs, a tree report of documented names, and a watch mode.
//
// ## Usage
//
//	go run . [flags] [dir]
//
// Examples:
//
//   - Insert documentation into every `.rst` file of `docs`:
//
//     go run . --namespace api.toml docs
//
//   - Document Go packages and preview the result without writing:
//
//     go run . --packages ./... --dry-run --tree docs
//
//   - Restore the bare directives:
//
//     go run . clear docs
//
//   - Print one fragment:
//
//     go run . render --namespace api.toml --members geo.Box
//
// ## Directives
//
//	.. insertdocs:: geo.Box
//	    :members: grow, area
//	    :inherited-members:
//
// After insertion the options move onto `.. insertdocs :key: value` comment
// lines and the fragment sits between `.. insertdocs start::` and
// `.. insertdocs end::`.
//
// ## Namespace Files
//
//	[objects."geo.Box"]
//	kind = "class"
//	doc = "Box(w, h)\n\nA box."
//	bases = ["geo.Shape"]
//	members = ["grow"]
//
// Kinds are module, class, function, method, property, text and sequence.
// Members are named relative to their owner; bases and sequence items use
// full names.
//
// ## Configuration
//
// Every flag has a config key in `.insertdocs.toml` and an `INSERTDOCS_*`
// environment variable (`ext`, `namespaces`, `packages`, `dry_run`, `tree`,
// `cache_size`, `log_level`, `watch.debounce`). A `.env` file in the working
// directory is loaded first.
package main
