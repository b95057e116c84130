/*
Package ports defines the driven ports (interfaces) of the interpreter.

These interfaces decouple sessions and front ends from the concrete storage
backends, so the same session manager works with memory, file or Redis stores and
with machine libraries read from disk or bundled in the binary.

# Key Interfaces

  - SnapshotStore: persists and loads machine Snapshots by session ID.
  - DistributedLocker: serializes access to a session across replicas.
  - MachineLibrary: resolves named machine Definitions.
*/
package ports
