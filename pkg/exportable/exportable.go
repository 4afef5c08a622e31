// =============================================================================
// CSV to IIF Converter - Exportable Tree
// =============================================================================
//
// Every node of an IIF document (name rows, header rows, transaction lines,
// whole transactions, the document itself) renders to text through the same
// interface. Composite nodes render by rendering their children and joining
// the results with newlines, in child order.
//
// CONCURRENCY:
//   Children are independent and already immutable by the time they are
//   rendered, so large child lists are rendered in parallel. Results are
//   always re-joined in the original order.
//
// =============================================================================

package exportable

import (
	"runtime"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iifutil"
	"golang.org/x/sync/errgroup"
)

// Exportable is any node that can be flattened into IIF text.
type Exportable interface {
	Render() (string, error)
}

// Composite is a node whose text is the newline-joined text of its children.
type Composite interface {
	Exportable

	// Children returns the ordered child nodes. It may fail when the
	// node is not in an exportable state.
	Children() ([]Exportable, error)
}

// parallelThreshold is the smallest child count rendered concurrently.
const parallelThreshold = 32

// RenderComposite renders a composite node's children and joins them.
func RenderComposite(c Composite) (string, error) {
	children, err := c.Children()
	if err != nil {
		return "", err
	}
	return RenderAll(children)
}

// RenderAll renders each child and joins the results with newlines,
// preserving order. When several children fail, the error of the earliest
// one is returned.
func RenderAll(children []Exportable) (string, error) {
	rendered := make([]string, len(children))
	errs := make([]error, len(children))

	if len(children) < parallelThreshold {
		for i, child := range children {
			if rendered[i], errs[i] = child.Render(); errs[i] != nil {
				return "", errs[i]
			}
		}
		return iifutil.JoinLines(rendered), nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, child := range children {
		g.Go(func() error {
			rendered[i], errs[i] = child.Render()
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return "", err
		}
	}
	return iifutil.JoinLines(rendered), nil
}

// =============================================================================
// LIST
// =============================================================================

// List is an ordered, growable composite.
type List struct {
	items []Exportable
}

// Add appends nodes to the list.
func (l *List) Add(items ...Exportable) {
	l.items = append(l.items, items...)
}

// Len returns the number of nodes in the list.
func (l *List) Len() int {
	return len(l.items)
}

// Children returns a copy of the list's nodes.
func (l *List) Children() ([]Exportable, error) {
	out := make([]Exportable, len(l.items))
	copy(out, l.items)
	return out, nil
}

func (l *List) Render() (string, error) {
	return RenderComposite(l)
}
