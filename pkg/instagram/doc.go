// Package instagram provides a client for the private web API used to
// enrich page-derived media with full-quality records.
//
// This package includes:
//   - A configurable HTTP client with rate limiting and the X-IG-App-ID header
//   - Type-safe models for the reels_media, media info and user info endpoints
//   - Helper functions for constructing API endpoints
//   - App id discovery from inline page scripts
//   - A memoized page URL to media id resolver
//
// Example usage:
//
//	client := instagram.NewClient(30*time.Second, limiter, log)
//	client.SetAppID(instagram.DiscoverAppID(snapshot))
//
//	info, err := client.FetchMediaInfo("3141592653589793238")
//	if err != nil {
//	    // hard failure (network, parse)
//	}
//	if info == nil {
//	    // soft failure, fall back to page-derived URLs
//	}
package instagram
