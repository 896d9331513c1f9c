package domain

import "errors"

var (
	// ErrNoSubTopics is returned when a deck declares no sub-topics.
	ErrNoSubTopics = errors.New("deck has no sub-topics")

	// ErrSubTopicNotFound is returned when a sub-topic id has no slides entry in the deck.
	ErrSubTopicNotFound = errors.New("sub-topic not found")

	// ErrSubTopicEmpty is returned when a sub-topic exists but has no slides.
	ErrSubTopicEmpty = errors.New("sub-topic has no slides")

	// ErrNotInitialized is returned by reveal operations called before the first Init.
	ErrNotInitialized = errors.New("reveal controller not initialized")

	// ErrNoDeck is returned when a command needs a loaded deck and none is loaded.
	ErrNoDeck = errors.New("no deck loaded")

	// ErrUnknownCommand is returned when a command name cannot be parsed.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnsupportedCommand is returned when a component receives a command it does not own.
	ErrUnsupportedCommand = errors.New("unsupported command")

	// ErrSessionNotFound is returned when a session ID cannot be found.
	ErrSessionNotFound = errors.New("session not found")
)
