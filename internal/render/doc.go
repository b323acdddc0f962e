// Package render serializes a document model for clients: a full render
// of the rendered tree, incremental updates carrying only the for-render
// props a reader has not seen yet, and the decoding of action requests.
package render
