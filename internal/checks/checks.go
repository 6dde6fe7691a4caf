// Package checks holds the library of content check functions. Each check is
// a pure, deterministic predicate over a content string: it never mutates its
// input, never performs I/O and never fails. Content that lacks the structure
// a check looks for is a normal silent pass, not an error.
package checks

// Result is a check outcome before it is bound to a rule. A failed check
// carries a message; a passed check may still carry a message together with
// NeedsReview when a human has to verify something the engine cannot.
type Result struct {
	Passed      bool
	NeedsReview bool
	Message     string
	Location    string
	Details     string
}

// Func inspects content and returns a Result.
type Func func(content string) Result

var (
	library = map[string]Func{}
	names   []string
)

// Register adds a check under name. Re-registering a name replaces the
// previous function, which keeps rule-pack reloads idempotent.
func Register(name string, fn Func) {
	if _, exists := library[name]; !exists {
		names = append(names, name)
	}
	library[name] = fn
}

// Lookup resolves a check by name.
func Lookup(name string) (Func, bool) {
	fn, ok := library[name]
	return fn, ok
}

// Names returns all registered check names in registration order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func pass() Result {
	return Result{Passed: true}
}

func fail(location, message string) Result {
	return Result{Location: location, Message: message}
}

func failWith(location, message, details string) Result {
	return Result{Location: location, Message: message, Details: details}
}

// advise is a pass that still needs a human look.
func advise(location, message string) Result {
	return Result{Passed: true, NeedsReview: true, Location: location, Message: message}
}
