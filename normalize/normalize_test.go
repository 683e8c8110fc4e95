package normalize

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pmitra96/recipe-backend/logger"
)

func decodeBody(t *testing.T, r Result) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		t.Fatalf("body is not a JSON object: %v (%s)", err, r.Body)
	}
	return m
}

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"name\":\"X\"}\n```", `{"name":"X"}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"other language tag", "```JSON\n{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", `{}`},
		{"no fence", "  plain text  ", "plain text"},
		{"fence only at start", "```json\n{\"a\":1}", `{"a":1}`},
		{"prose after fence", "```Sorry, I cannot make that```", "Sorry, I cannot make that"},
		{"tag with trailing spaces", "```yaml  \n{\"a\":1}\n```", `{"a":1}`},
		{"json tag on same line", "```json{\"a\":1}```", `{"a":1}`},
		{"inner fence kept", "intro ```json {\"a\":1}``` outro", "intro ```json {\"a\":1}``` outro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanReply(tt.input); got != tt.want {
				t.Errorf("CleanReply(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"single object", `{"a":1}`, `{"a":1}`, nil},
		{"prose around", "Here you go: {\"a\":1} enjoy!", `{"a":1}`, nil},
		{"spans newlines", "{\n  \"a\": [1,\n 2]\n}", "{\n  \"a\": [1,\n 2]\n}", nil},
		{"greedy over two objects", `{"a":1} and {"b":2}`, `{"a":1} and {"b":2}`, nil},
		{"stray closing brace in prose", `{"a":1} :-}`, `{"a":1} :-}`, nil},
		{"no braces", "no json here", "", ErrNoJSONObject},
		{"only opening brace", "{ unfinished", "", ErrNoJSONObject},
		{"reversed braces", "} {", "", ErrNoJSONObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_FencedReply(t *testing.T) {
	r := Normalize("```json\n{\"name\":\"X\"}\n```", Recipe)
	if r.Fallback {
		t.Fatalf("unexpected fallback: %v", r.Reason)
	}
	if string(r.Body) != `{"name":"X"}` {
		t.Errorf("Body = %s", r.Body)
	}
}

func TestNormalize_PassesObjectThroughVerbatim(t *testing.T) {
	reply := "Sure! Here is your recipe:\n" +
		`{"zeta": 1, "name": "Keto Chicken", "calories": 450.50, "extra": {"nested": true}}` +
		"\nLet me know if you need anything else."

	r := Normalize(reply, Recipe)
	if r.Fallback {
		t.Fatalf("unexpected fallback: %v", r.Reason)
	}
	want := `{"zeta":1,"name":"Keto Chicken","calories":450.50,"extra":{"nested":true}}`
	if string(r.Body) != want {
		t.Errorf("Body = %s, want %s", r.Body, want)
	}
	if r.Kind != Recipe {
		t.Errorf("Kind = %q", r.Kind)
	}
}

func TestNormalize_DuplicateKeysKeptAsWritten(t *testing.T) {
	r := Normalize(`{"a": 1, "a": 2}`, Grocery)
	if r.Fallback {
		t.Fatalf("unexpected fallback: %v", r.Reason)
	}
	if string(r.Body) != `{"a":1,"a":2}` {
		t.Errorf("Body = %s", r.Body)
	}
}

func TestNormalize_FenceWithProseKeepsFirstWord(t *testing.T) {
	r := Normalize("```Sorry, I cannot make that```", Recipe)
	if !r.Fallback {
		t.Fatal("expected fallback")
	}
	steps, _ := decodeBody(t, r)["steps"].([]any)
	if len(steps) != 1 || steps[0] != "Sorry, I cannot make that" {
		t.Errorf("steps = %#v", steps)
	}
}

func TestNormalize_SchemaMismatchPassesThrough(t *testing.T) {
	r := Normalize(`{"title": "not a recipe"}`, Recipe)
	if r.Fallback {
		t.Fatalf("unexpected fallback: %v", r.Reason)
	}
	m := decodeBody(t, r)
	if len(m) != 1 || m["title"] != "not a recipe" {
		t.Errorf("body = %v", m)
	}
}

func TestNormalize_RecipeFallbackWithoutBraces(t *testing.T) {
	reply := "   I'm sorry, I can only suggest a salad today.  \n"
	r := Normalize(reply, Recipe)
	if !r.Fallback {
		t.Fatal("expected fallback")
	}
	if !errors.Is(r.Reason, ErrNoJSONObject) {
		t.Errorf("Reason = %v", r.Reason)
	}

	m := decodeBody(t, r)
	steps, ok := m["steps"].([]any)
	if !ok || len(steps) != 1 {
		t.Fatalf("steps = %#v", m["steps"])
	}
	if steps[0] != "I'm sorry, I can only suggest a salad today." {
		t.Errorf("steps[0] = %q", steps[0])
	}
	if m["name"] != "AI Generated Recipe" {
		t.Errorf("name = %v", m["name"])
	}
	if ing, ok := m["ingredients"].([]any); !ok || len(ing) != 0 {
		t.Errorf("ingredients = %#v", m["ingredients"])
	}
	if m["total_calories"] != "Not available" || m["protein"] != "Not available" {
		t.Errorf("calories/protein = %v / %v", m["total_calories"], m["protein"])
	}
}

func TestNormalize_MalformedJSONFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		kind  Kind
	}{
		{"single quotes", "{'name': 'X'}", Recipe},
		{"trailing comma", `{"items": [{"name": "milk"},]}`, Grocery},
		{"two objects", `{"a":1} then {"b":2}`, Grocery},
		{"prose brace after object", `{"a":1} :-}`, Recipe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Normalize(tt.reply, tt.kind)
			if !r.Fallback {
				t.Fatalf("expected fallback, got %s", r.Body)
			}
			if r.Reason == nil {
				t.Error("fallback without reason")
			}
		})
	}
}

func TestNormalize_GroceryFallback(t *testing.T) {
	r := Normalize("You should buy milk and eggs.", Grocery)
	if !r.Fallback {
		t.Fatal("expected fallback")
	}
	if string(r.Body) != `{"items":[]}` {
		t.Errorf("Body = %s", r.Body)
	}
}

func TestNormalize_FallbackIsIdempotent(t *testing.T) {
	for _, kind := range []Kind{Recipe, Grocery} {
		t.Run(string(kind), func(t *testing.T) {
			first := Normalize("nothing useful", kind)
			if !first.Fallback {
				t.Fatal("expected fallback")
			}
			second := Normalize(string(first.Body), kind)
			if second.Fallback {
				t.Fatalf("re-normalized fallback should parse, got reason %v", second.Reason)
			}
			if !reflect.DeepEqual(decodeBody(t, first), decodeBody(t, second)) {
				t.Errorf("shape changed: %s -> %s", first.Body, second.Body)
			}
		})
	}
}

func TestNormalize_LogsFallbackReason(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	Normalize("no json", Grocery)

	entries := logs.FilterMessage("Model reply JSON parse error").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["kind"] != "grocery" {
		t.Errorf("kind field = %v", ctx["kind"])
	}
	if ctx["error"] == nil {
		t.Error("missing error field")
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	r := Normalize(`{"items":[{"name":"milk","quantity":"1 l"}]}`, Grocery)
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"items":[{"name":"milk","quantity":"1 l"}]}` {
		t.Errorf("Marshal = %s", out)
	}

	out, err = json.Marshal(Result{})
	if err != nil || string(out) != "{}" {
		t.Errorf("empty Result = %s, %v", out, err)
	}
}
