// Package search implements the multi-criteria label-setting engine that
// explores charging decisions along a corridor network.
//
// A label is a partial route that has reached a node with a given state of
// charge and accumulated time, cost and emissions. At each station the
// engine branches over candidate target SoCs (including passing through
// without charging), extends every branch over the next edge and keeps only
// labels that are not dominated. Because higher SoC relaxes every future
// constraint, dominance compares SoC together with the cost objectives.
//
// Nodes are processed in corridor order; the network has no back edges, so
// the label set of a node is final once its predecessor has been expanded.
package search
