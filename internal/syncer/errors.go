package syncer

import "errors"

// ErrTokenNotFound is returned when a flow needs an access token for an
// item and the credential vault holds none. Every flow except linking
// fails with this when the item was never linked (or already unlinked).
var ErrTokenNotFound = errors.New("no access token stored for item")
