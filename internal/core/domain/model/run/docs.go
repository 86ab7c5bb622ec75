// Package run holds the Result aggregate: the averaged scores of one batch of
// simulation runs of a scenario, as stored by the persistence adapters.
//
// A Result is created once a runner finished and is never changed afterwards.
// Scores are keyed by criterion key (see rating.Criterion.Key) so the model does
// not depend on the rating services.
package run
