/*
Package reveal implements the step-reveal state machine of a rendered slide.

A Controller owns an integer step in [0, total], where total is the number of
reveal-tagged elements found when it was last initialized. Element i (1-based,
in ascending tag order) is visible iff i <= step. Visibility is recomputed for
every element on every transition.

Transitions are synchronous. A Controller is not safe for concurrent use; the
presenter that owns it serializes every command through a single Dispatch.
*/
package reveal
