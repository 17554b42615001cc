// Package similarity scores how closely a free-text element description
// matches the text or accessibility label of an on-screen element.
//
// Scoring works at two levels. WordSimilarity compares two single tokens
// (exact, synonym, substring, bounded edit distance). QueryScore compares a
// whole query against a whole label by dropping action and filler words from
// the query and averaging the best per-word score.
//
// All functions are pure and safe for concurrent use.
package similarity
