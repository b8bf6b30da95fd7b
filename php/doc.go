// Package php formats the fragments of PHP code embedded in view templates.
//
// There is no real PHP parser here. Every decision is made by scanning
// text: string literals are skipped, brackets are counted, and a small set
// of keyword and suffix heuristics classifies control flow. The pieces are
// layered, leaves first: [FormatCode] normalizes the spacing of one line,
// [NormalizeStatements] breaks a one-line blob into statements,
// [SplitLine] wraps an over-width line, [Reindent] lays out a whole block,
// and [FormatEcho] renders a short-echo tag.
//
// All output uses a fixed four-space indent and a soft budget of
// [MaxWidth] bytes per line.
package php
