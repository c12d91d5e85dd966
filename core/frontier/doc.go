// Package frontier turns destination labels into route plans and reduces
// them to a Pareto frontier over trip time, energy cost and CO₂. Selectors
// pick a single plan from the frontier by weighted sum or lexicographic
// order.
package frontier
