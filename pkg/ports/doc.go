/*
Package ports defines the driven ports (interfaces) of the Lectern engine.

These interfaces decouple the presenter core from deck storage and from the
concrete user interface it drives, so the same engine runs behind a terminal,
an HTTP page or an MCP client.

# Key Interfaces

  - DeckSource: Loads a complete Deck (e.g., from a JSON file, a Loam directory or memory).
  - Watchable: Signals that the deck behind a source changed (hot reload).
  - RevealScope / RevealTarget: The rendered slide as seen by the reveal controller.
  - Control, Indicator, ProgressSink: UI handles injected into the engine.
*/
package ports
