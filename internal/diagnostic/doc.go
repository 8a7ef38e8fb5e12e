// Package diagnostic collects per-unit errors and warnings produced while
// scanning documents for struct specifications.
//
// Every diagnostic carries the document and the line its unit starts on,
// so one failing unit can be reported without blocking the others.
package diagnostic
