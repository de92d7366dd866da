package fetcher

import "errors"

var (
	// ErrInvalidURL is returned when the link is not a well-formed http(s) URL
	ErrInvalidURL = errors.New("invalid url")
	// ErrBrowserLaunch is returned when the headless browser cannot be started
	ErrBrowserLaunch = errors.New("browser launch failed")
	// ErrNavigation is returned when the page cannot be loaded
	ErrNavigation = errors.New("page navigation failed")
	// ErrEmptyContent is returned when no text at all could be extracted
	ErrEmptyContent = errors.New("no content extracted from page")
)
