/*
Package ports defines the driven ports (interfaces) of the Parley dialogue engine.

These interfaces decouple the dialogue state machine from the game that hosts it,
so the same engine can drive a terminal playground, a test recorder or a real game
renderer without knowing which one it talks to.

# Key Interfaces

  - Presenter: receives the side-effects the engine requests (reveal text, show/hide box and menu, move the cursor).
  - InputReader: reports what the player pressed during the current frame.
  - ScriptLoader: supplies named conversation payloads from a data source (file, directory, memory).
*/
package ports
