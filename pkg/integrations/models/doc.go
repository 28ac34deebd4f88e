// Package models provides a client for the chat-completion endpoint
// used to categorize and summarize README text.
//
// The endpoint is treated as an external collaborator returning a fixed
// JSON shape: one POST per repository with a category-constrained system
// prompt and the sanitized README as the user message, answered by
// {"categories": [...], "summary": "..."}. Models occasionally wrap the
// object in prose; a single fallback pass extracts the span between the
// first "{" and the last "}" before giving up on an item.
//
// Rate limits (429) trigger one cooldown retry. Auth failures (401) are
// fatal for the whole run since every following call would fail the
// same way.
package models
