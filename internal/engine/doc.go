// Package engine runs many independent Fermat searches under a bounded worker
// pool, one job per modulus, each with an optional timeout, and reports a
// types.JobResult per job. This package is internal; external consumers
// should use the stable facade in pkg/core.
package engine
