package extract

import (
	"errors"
	"reflect"
	"testing"
)

const releasePage = `<!doctype html>
<html>
  <head><title>Releases</title></head>
  <body>
    <div class="release-header"><a href="/v1.2.3">v1.2.3</a></div>
    <ul class="assets">
      <li>first</li>
      <li>second</li>
      <li>third</li>
    </ul>
    <span id="empty"></span>
  </body>
</html>`

func TestXPath_SingleNodeIsBareString(t *testing.T) {
	v, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//div[@class="release-header"]//a`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Matched() {
		t.Fatalf("expected a match")
	}
	got, ok := v.Content().(string)
	if !ok {
		t.Fatalf("single match must be a string, got %T", v.Content())
	}
	if got != "v1.2.3" {
		t.Fatalf("expected %q, got %q", "v1.2.3", got)
	}
}

func TestXPath_AttributeYieldsLiteralValue(t *testing.T) {
	v, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//div[@class="release-header"]//a/@href`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Content() != "/v1.2.3" {
		t.Fatalf("expected attribute value %q, got %v", "/v1.2.3", v.Content())
	}
}

func TestXPath_MultiMatchPreservesDocumentOrder(t *testing.T) {
	v, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//ul[@class="assets"]/li`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"first", "second", "third"}
	got, ok := v.Content().([]string)
	if !ok {
		t.Fatalf("multi match must be a slice, got %T", v.Content())
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestXPath_NoMatchIsNilNotEmptySlice(t *testing.T) {
	v, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//article`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Matched() {
		t.Fatalf("expected no match")
	}
	if v.Content() != nil {
		t.Fatalf("no match must normalize to nil, got %#v", v.Content())
	}
}

func TestXPath_MatchedEmptyTextStaysMatched(t *testing.T) {
	// A present element with no text is a match carrying "", not absence.
	v, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//span[@id="empty"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Matched() {
		t.Fatalf("expected empty element to count as matched")
	}
	if v.Content() != "" {
		t.Fatalf("expected empty string content, got %#v", v.Content())
	}
}

func TestXPath_TextContentSpansDescendants(t *testing.T) {
	body := `<div id="x">Hello <b>nested <i>world</i></b>!</div>`
	v, err := XPathEvaluator{}.Evaluate([]byte(body), `//div[@id="x"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Content() != "Hello nested world!" {
		t.Fatalf("expected descendant text in document order, got %v", v.Content())
	}
}

func TestXPath_ScalarResultPassesThrough(t *testing.T) {
	v, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `count(//li)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Content() != "3" {
		t.Fatalf("expected scalar %q, got %v", "3", v.Content())
	}

	v, err = XPathEvaluator{}.Evaluate([]byte(releasePage), `string(//title)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Content() != "Releases" {
		t.Fatalf("expected %q, got %v", "Releases", v.Content())
	}
}

func TestXPath_MalformedExpressionIsQueryError(t *testing.T) {
	_, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//div[@class=`)
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if qe.Expr != `//div[@class=` {
		t.Fatalf("QueryError must carry the expression, got %q", qe.Expr)
	}
}

func TestXPath_MalformedHTMLIsRecovered(t *testing.T) {
	// Unclosed tags, no doctype: parsing is best effort, never fatal.
	body := `<div class="a"><p>still here<div><span>more`
	v, err := XPathEvaluator{}.Evaluate([]byte(body), `//p`)
	if err != nil {
		t.Fatalf("lenient parse must not fail: %v", err)
	}
	if v.Content() != "still here" {
		t.Fatalf("expected recovered content, got %v", v.Content())
	}
}

func TestXPath_Deterministic(t *testing.T) {
	first, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//li`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := XPathEvaluator{}.Evaluate([]byte(releasePage), `//li`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("evaluation not deterministic: %v vs %v", first, again)
		}
	}
}

func TestCSS_SelectorMatching(t *testing.T) {
	v, err := CSSEvaluator{}.Evaluate([]byte(releasePage), `div.release-header a`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Content() != "v1.2.3" {
		t.Fatalf("expected %q, got %v", "v1.2.3", v.Content())
	}

	v, err = CSSEvaluator{}.Evaluate([]byte(releasePage), `ul.assets li`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := v.Content().([]string)
	if !ok || len(got) != 3 || got[0] != "first" || got[2] != "third" {
		t.Fatalf("expected three ordered items, got %v", v.Content())
	}
}

func TestCSS_InvalidSelectorIsQueryError(t *testing.T) {
	_, err := CSSEvaluator{}.Evaluate([]byte(releasePage), `div[`)
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
}

func TestCSS_NoMatchIsNil(t *testing.T) {
	v, err := CSSEvaluator{}.Evaluate([]byte(releasePage), `table.missing`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Matched() || v.Content() != nil {
		t.Fatalf("expected nil content for no match, got %#v", v.Content())
	}
}
