// Package spec parses and validates stagegen struct specifications.
//
// A specification is a small TOML or YAML document:
//
//	name = "FooFinder"
//	namespace = "foofinder"  # optional, defaults to lowercase(name)
//	package = "finders"      # optional, defaults to namespace
//	self = "foofinder"       # optional, defaults to namespace
//	imports = ["strings"]    # optional
//	fields = [
//	    ["data", "string"],
//	    ["found", "[]string"],
//	]
//
// Field type-expressions are opaque Go type text. Every occurrence of the
// placeholder '_ is replaced by the self token, which names the brand type
// of values that borrow from the object's own storage.
package spec
