/*
Package session turns a one-shot machine run into a durable, resumable session.

A session is a domain.Snapshot stored under an ID: the program source, the current
state and the tape. The Manager serializes every operation on a session with a
ref-counted in-process mutex and, optionally, a ports.DistributedLocker so several
replicas can share one store. Advance restores the machine, runs a bounded number of
steps with periodic checkpoints and saves where it stopped.
*/
package session
