// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package votesession drives one voter through an election: bootstrap, ranking,
write-ins, review and the one-shot submit.

# Bootstrap

Load fetches the election, then the voter's status, then the ballot, each
only if the previous step allows it. A closed election never fetches status
or ballot, and a voter who already voted never fetches the ballot. Any fetch
failure ends in PhaseError with one generic message.

# Phases

	loading -> editing <-> reviewing -> submitted
	        -> closed | voted | error

closed, voted, submitted and error are terminal for the session.

# Submitting

Submit allows one request in flight. A rejected submission keeps the server's
message verbatim in Message; a transport failure gets a generic one. Either
way the session stays in review with the ballot untouched, so the voter can
retry or go back and edit.
*/
package votesession
