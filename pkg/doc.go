// Package pkg provides the core libraries for Marquee poster rendering.
//
// # Overview
//
// Marquee turns a piece of artwork, an optional logo and a few lines of
// metadata into a finished JPEG title poster. The pkg directory is organized
// into these areas:
//
//  1. [poster] - Composition (backgrounds, logo, text block, footer)
//  2. [fonts] and [assets] - Font faces and static images, with fallbacks
//  3. [pipeline] - Orchestration (decode → compose → encode)
//  4. [cache] - Render cache backends (file, Redis, null)
//  5. [config] - TOML configuration
//
// # Architecture
//
// The typical data flow through Marquee:
//
//	Artwork + Logo + Metadata
//	         ↓
//	   [pipeline.Runner]  ← cache lookup by input hash
//	         ↓
//	   [poster.Compose]   ← framed panel or ambient wash
//	         ↓
//	      JPEG bytes
//
// # Supporting Packages
//
//   - [errors] - Coded errors shared by every layer
//   - [observability] - Hooks around renders and cache access
//   - [buildinfo] - Version information set at build time
package pkg
