// Package gateway exposes endpoint dispatchers over HTTP.
//
//	GET  /health
//	GET  /endpoints
//	GET  /endpoints/{endpoint}/tools[?match=patterns]
//	POST /endpoints/{endpoint}/tools/{name}   body: JSON array of call arguments, or one value
//	POST /endpoints/{endpoint}/call/{tool}    body: JSON arguments object, sent unchanged
//
// Tool calls answer with the raw MCP call result.
package gateway
