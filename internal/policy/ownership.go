package policy

import "errors"

// ErrForbidden indicates an authenticated subject does not own the resource
// it is trying to mutate.
var ErrForbidden = errors.New("policy: forbidden")

// Owned is implemented by resources whose mutation is restricted to the
// identity recorded as their creator.
type Owned interface {
	ResourceOwner() string
}

// Guard performs the per-resource ownership check run by handlers after the
// gateway has admitted a request. It applies to mutating operations only;
// reads never pass through it.
type Guard struct{}

// Authorize verifies the acting subject may mutate the resource. Resources
// that do not carry ownership semantics are authorized for any authenticated
// subject.
func (Guard) Authorize(subjectID string, resource any) error {
	owned, ok := resource.(Owned)
	if !ok {
		return nil
	}
	if subjectID == "" || owned.ResourceOwner() != subjectID {
		return ErrForbidden
	}
	return nil
}
