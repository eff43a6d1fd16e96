// Package efficientfrontier computes optimal portfolio allocations under
// Modern Portfolio Theory.
//
// Given a vector of expected returns and the covariance matrix of those
// returns, the package finds weight vectors that minimize portfolio variance
// (MinRisk) or maximize the portfolio's risk-adjusted return (MaxSharpe),
// subject to the budget constraint that weights sum to 1. Weights are
// confined to [0, 1] by default, or [-1, 1] when short selling is enabled.
// Beyond the two named objectives, an Optimizer can target a specific return
// (EfficientReturn) or volatility (EfficientRisk), sample the whole frontier
// (Frontier), allocate by inverse variance (RiskParity), and minimize
// arbitrary caller-supplied objectives (Minimize).
//
// The constrained problem is solved numerically: the budget and group
// constraints are enforced with quadratic penalties, weight bounds by
// projection, and the penalized objective is minimized with the
// gradient-based and simplex methods of gonum.org/v1/gonum/optimize.
//
// All operations are pure functions of their inputs: no I/O, no shared
// mutable state, deterministic results. An Optimizer is safe for concurrent
// use.
package efficientfrontier
