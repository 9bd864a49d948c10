package common

import "errors"

var (

	// repository / remote mirror specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal = errors.New("internal error")

	// a sync (full or fast push) is already running in this replica;
	// the request is dropped, not queued
	ErrorSyncInProgress = errors.New("sync already in progress")

	// another context already runs the batch translation for this book
	ErrorTranslationInProgress = errors.New("translation already in progress")
)
