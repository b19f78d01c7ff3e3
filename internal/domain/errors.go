package domain

import "errors"

var (
	// ErrNotConfigured signals a missing client or setting.
	ErrNotConfigured = errors.New("not configured")
	// ErrSearchFailed signals a search service failure.
	ErrSearchFailed = errors.New("search failed")
	// ErrAgentFailed signals a knowledge agent setup or retrieval failure.
	ErrAgentFailed = errors.New("agent retrieval failed")
	// ErrCompletionFailed signals a language model provider failure.
	ErrCompletionFailed = errors.New("completion provider error")
	// ErrEmptyCompletion signals a completion response without choices.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrInvalidCategories signals a categorization response that could not be parsed.
	ErrInvalidCategories = errors.New("invalid categories response")
)
