// Package votingengine records votes, enforces the one-vote-per-participant
// rule and the channel subscription gate, and projects standings and
// participation reports from the ledger.
package votingengine
