/*
Package domain contains the core domain models of the Turing machine interpreter.

It defines the vocabulary shared by the tape, the engine, the DSL compiler and every
adapter: head directions, configurations, transitions, transition tables and the
serializable snapshot of a machine. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Direction: The head movement after a transition (Left or Right).
  - Configuration: The lookup key of a table, the current state plus the symbol under the head.
  - Transition: The action taken on a match: write a symbol, switch state, move the head.
  - Table: The mapping from Configuration to Transition.
  - Snapshot: A string-typed, persistable capture of a machine's position.
  - Definition: A named machine program with its default input, as stored in a library.
*/
package domain
