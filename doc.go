// Package llgen is a typed LL(k) parser generator: given a grammar
// declaration, it normalizes it into the data model of package grammar,
// computes FIRST_k/FOLLOW_k sets (package analysis), builds a prediction
// table (package table), and runs a stack-machine parser over a token
// stream against that table (package runtime).
//
// The surface EBNF declaration form and the structured/type-declaration
// front end live in packages ebnf and grammar (structured.go)
// respectively; persistence of a compiled grammar is package llkio; the
// llk command wires all of the above into a CLI.
package llgen
