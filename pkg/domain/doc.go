/*
Package domain contains the core domain models of the Lectern presentation engine.

It defines the deck a lesson is made of, the closed set of content blocks a slide
can carry, the cursor into the deck, and the commands that move the cursor and the
reveal step. This package is kept pure and free of I/O, rendering and persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Deck: Sub-topics in order, plus the ordered slides of each sub-topic.
  - Slide: One screen of content (layout, title, points, blocks, image).
  - Block: A typed content unit (Timeline, Explanation, Comparison, Statistics, Story, Takeaways).
  - Cursor: Which sub-topic and slide index is on screen.
  - Command: A single input to the presenter (reveal steps or slide navigation).
  - Snapshot: The observable state of a presenter, diffable for streaming.
*/
package domain
