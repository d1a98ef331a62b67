/*
Package domain contains the core domain models of the Parley dialogue engine.

It defines the data a conversation is made of and the vocabulary the engine uses to
describe itself: the decoded Script, the engine State, the per-frame Input snapshot
and the lifecycle events. This package is kept pure and free of I/O, following
Hexagonal Architecture principles.

# Key Entities

  - Payload: the loosely-typed "choices / labels / text blocks" bundle a game sends to open a conversation.
  - Script: the validated, owned form of a Payload (opening line plus optional branches).
  - State: the explicit dialogue state machine position (Idle, Revealing, AwaitingSelection, AwaitingDismiss).
  - Input: what the player pressed during the current frame.
*/
package domain
