// Package driven defines the interfaces core calls OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal
// architecture. Core services depend on these interfaces;
// infrastructure adapters implement them.
//
// # Required Interfaces
//
//   - ArtifactSource: reads the four artifact files (manifest,
//     spans, node map, build report) from a directory.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: any adapter package
package driven
