package extract

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Value holds the normalized text of every matched node in document order.
// A nil Value means the expression selected nothing, which is deliberately
// distinct from a single empty string (a matched element with no text).
type Value []string

// Matched reports whether the expression selected anything.
func (v Value) Matched() bool { return len(v) > 0 }

// Content returns the value in its output shape: nil for no match, a bare
// string for a single match, and a string slice for several.
func (v Value) Content() any {
	switch len(v) {
	case 0:
		return nil
	case 1:
		return v[0]
	default:
		return []string(v)
	}
}

// QueryError reports a path expression the query engine could not parse.
// It is a caller mistake, distinct from a valid expression matching nothing.
type QueryError struct {
	Expr string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %v", e.Expr, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Evaluator selects document content matching an expression. Implementations
// swap query languages without changing callers, and must be deterministic
// for a given body and expression.
type Evaluator interface {
	Evaluate(body []byte, expr string) (Value, error)
}

// XPathEvaluator evaluates XPath expressions against a leniently parsed HTML
// tree. Node-set results become the full descendant text of each node in
// document order; an attribute step yields the literal attribute value; a
// scalar result (string(), count(), boolean()) passes through as text.
type XPathEvaluator struct{}

func (XPathEvaluator) Evaluate(body []byte, expr string) (Value, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, &QueryError{Expr: expr, Err: err}
	}
	doc, err := parseHTML(body)
	if err != nil {
		return nil, err
	}
	switch v := compiled.Evaluate(htmlquery.CreateXPathNavigator(doc)).(type) {
	case *xpath.NodeIterator:
		return fromNodes(htmlquery.QuerySelectorAll(doc, compiled)), nil
	case string:
		return Value{v}, nil
	case float64:
		return Value{strconv.FormatFloat(v, 'f', -1, 64)}, nil
	case bool:
		return Value{strconv.FormatBool(v)}, nil
	default:
		return nil, &QueryError{Expr: expr, Err: fmt.Errorf("unsupported result type %T", v)}
	}
}

// parseHTML builds a best-effort tree: malformed or partial markup is
// recovered, never rejected.
func parseHTML(body []byte) (*html.Node, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func fromNodes(nodes []*html.Node) Value {
	if len(nodes) == 0 {
		// Absence, not an empty sequence.
		return nil
	}
	items := make(Value, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, htmlquery.InnerText(n))
	}
	return items
}
