package extract

import (
	"github.com/andybalholm/cascadia"
)

// CSSEvaluator evaluates CSS selector groups with the same normalization
// rules as XPath. Selectors address elements only, so attribute values are
// out of reach here; use XPath for those.
type CSSEvaluator struct{}

func (CSSEvaluator) Evaluate(body []byte, expr string) (Value, error) {
	sel, err := cascadia.Compile(expr)
	if err != nil {
		return nil, &QueryError{Expr: expr, Err: err}
	}
	doc, err := parseHTML(body)
	if err != nil {
		return nil, err
	}
	return fromNodes(sel.MatchAll(doc)), nil
}
