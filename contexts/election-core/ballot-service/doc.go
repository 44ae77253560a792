// Package ballotservice implements the ballot-casting and
// results-publication protocol inside the election-core context.
//
// The module enforces at-most-one-ballot-per-voter-per-position at
// submission time, treating the storage uniqueness constraint as the final
// arbiter, and gates visibility of aggregate results behind an explicit,
// idempotent publication action. Reads (open positions, candidates, vote
// aggregation) are side-effect-free. Business rules live in the
// application/domain layers; infrastructure stays behind ports and adapters.
package ballotservice
