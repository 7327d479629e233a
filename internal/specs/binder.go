package specs

import "fmt"

// Binder collects positional arguments while predicates render themselves,
// handing out $N placeholders in bind order.
type Binder struct {
	args []interface{}
}

// NewBinder returns a binder seeded with already-bound arguments.
func NewBinder(args ...interface{}) *Binder {
	return &Binder{args: append([]interface{}{}, args...)}
}

// Bind registers a value and returns its placeholder.
func (b *Binder) Bind(value interface{}) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// Args returns the bound values in placeholder order.
func (b *Binder) Args() []interface{} {
	return b.args
}
