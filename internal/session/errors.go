package session

// modelLoadError signals a missing, unreadable, or invalid model weight file.
type modelLoadError struct{ msg string }

func (e modelLoadError) Error() string { return "model load: " + e.msg }

// ErrModelLoad constructs a modelLoadError.
func ErrModelLoad(msg string) error { return modelLoadError{msg: msg} }

// IsModelLoad reports whether err indicates a model file that could not be loaded.
func IsModelLoad(err error) bool {
	_, ok := err.(modelLoadError)
	return ok
}

// notInitializedError signals API misuse: session operations before Initialize.
type notInitializedError struct{}

func (notInitializedError) Error() string { return "session not initialized" }

// ErrNotInitialized constructs a notInitializedError.
func ErrNotInitialized() error { return notInitializedError{} }

// IsNotInitialized reports whether err indicates a call before Initialize.
func IsNotInitialized(err error) bool {
	_, ok := err.(notInitializedError)
	return ok
}

// notReadyError signals generation attempted before SetupSession bound a history.
type notReadyError struct{}

func (notReadyError) Error() string { return "session not ready: no chat history bound" }

// ErrNotReady constructs a notReadyError.
func ErrNotReady() error { return notReadyError{} }

// IsNotReady reports whether err indicates a call before SetupSession.
func IsNotReady(err error) bool {
	_, ok := err.(notReadyError)
	return ok
}

// generationError signals an engine fault during token streaming.
type generationError struct{ msg string }

func (e generationError) Error() string { return "generation: " + e.msg }

// ErrGeneration constructs a generationError.
func ErrGeneration(msg string) error { return generationError{msg: msg} }

// IsGeneration reports whether err indicates a failure while streaming tokens.
func IsGeneration(err error) bool {
	_, ok := err.(generationError)
	return ok
}

// busyError signals a second Generate while a previous stream is still live.
type busyError struct{}

func (busyError) Error() string { return "generation already in flight" }

// IsBusy reports whether err indicates a concurrent generation attempt.
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// closedError signals use of a disposed session.
type closedError struct{}

func (closedError) Error() string { return "session disposed" }

// IsClosed reports whether err indicates the session was already disposed.
func IsClosed(err error) bool {
	_, ok := err.(closedError)
	return ok
}

// engineUnavailableError signals a missing native runtime (built without llama support).
type engineUnavailableError struct{ msg string }

func (e engineUnavailableError) Error() string { return e.msg }

// ErrEngineUnavailable constructs an engineUnavailableError.
func ErrEngineUnavailable(msg string) error { return engineUnavailableError{msg: msg} }

// IsEngineUnavailable reports whether err indicates a missing/failed engine dependency.
func IsEngineUnavailable(err error) bool {
	_, ok := err.(engineUnavailableError)
	return ok
}
