// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot holds the in-memory ranking state of a ranked-choice ballot.

A Section owns one position. Its candidates start in a pool, shuffled once
when the section is built, and move into an ordered ranking with Promote
and back out with Demote. Reorder and the drag methods permute the ranking
without changing its members. A section is complete when the pool is empty
and at least one candidate is ranked.

	section := ballot.NewSection("president", candidates, nil)
	section.Toggle()
	section.Promote(id)

An Aggregator reads every section to decide whether the ballot can be
submitted and to build the payload. Only active positions are submitted;
deactivating a position hides its ranking without discarding it.

A Directory maps candidate IDs to candidates for the session so names can be
shown on review even for write-ins that were never part of the ballot.
*/
package ballot
