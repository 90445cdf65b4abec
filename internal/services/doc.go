// Package services defines shared utilities consumed by the engine adapters
// and the processing pipeline.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify external
//     failures (engine missing, conversion failed, inference failed, policy
//     capability missing) so the CLI can show an actionable message.
//   - Context helpers that stamp run and component identifiers for logging.
//
// Use these helpers when wiring new engine adapters so error handling and
// observability stay uniform across the pipeline.
package services
