// Package global implements the GlobalHypothesis and MultiBernoulliMixture:
// a weighted set of joint per-track STH selections, with normalize/prune/cap
// operations performed in log-space.
package global
