// Package document defines the editing surface boundary the history engine
// works against, and an HTML-backed surface implementation.
//
// # Surface
//
// A Surface exposes whole-document serialize/replace, selection get/set,
// focus, and a subscription for edit-trigger signals (key, paste, blur,
// drop). The engine never edits a surface piecemeal; it only installs whole
// snapshots.
//
// # Positions
//
// A Point is DOM-style: a text node plus a unit offset into its text, or an
// element plus a child index. Points are only meaningful for the tree they
// were taken from. After SetContent every old Point is stale, which is why
// the history engine converts selections to linear offsets before replacing
// content.
//
// # Content units
//
// Offsets count grapheme clusters (see UnitCount), not bytes or runes.
package document
