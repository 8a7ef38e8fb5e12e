// Package scan finds stagegen units embedded in source documents and writes
// the generated code next to them.
//
// A unit starts on the line that carries the invocation token and ends on the
// next line that contains the block-comment terminator. Tokens inside //
// comments are ignored. The lines strictly between are a spec document, TOML
// unless the token line also says yaml:
//
//	/* stagegen:struct
//	name = "FooFinder"
//	fields = [["data", "string"], ["found", "[]string"]]
//	*/
//
// The unit on line 9 of foofinder.go is written to foofinder_stagegen_9.go.
// Every unit is generated on its own; a failing unit is reported in the
// Result and never stops the others.
package scan
