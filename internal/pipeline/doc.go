// Package pipeline implements the HTML injection stage of the splash plugin.
//
// The injectors splice prebuilt fragments into a document without parsing it:
//   - a <style> block immediately before the first </head>
//   - overlay markup and the inline script immediately before the first </body>
//
// Matching is ASCII case-insensitive and byte-exact, so the output length is
// always the input length plus the inserted fragment lengths. A missing tag
// is reported to the caller, which decides whether that is an error.
package pipeline
