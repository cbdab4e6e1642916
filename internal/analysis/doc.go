// Package analysis extracts orbital quantities from sampled trajectories.
package analysis
