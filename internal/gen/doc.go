// Package gen emits Go source for staged self-referential structs.
//
// For a spec with fields f1..fN it emits, into one file:
//   - the storage layout holding all fields, and a buffer type owning one
//     stable allocation of it
//   - one view per field, the only path to a field's bytes
//   - Stage1..StageN, where StageK owns a buffer whose fields 1..K are set;
//     each stage moves its buffer into the next one
//   - the finished struct wrapping StageN
//
// Each part is a text/template; the joined text is normalized with go/format.
// Output is a pure function of the Spec.
package gen
