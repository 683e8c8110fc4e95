// Package normalize turns free-form completion text into the JSON bodies the
// generate endpoints return.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pmitra96/recipe-backend/logger"
	"github.com/pmitra96/recipe-backend/models"
)

// Kind selects the schema (and fallback) a reply is normalized into.
type Kind string

const (
	Recipe  Kind = models.KindRecipe
	Grocery Kind = models.KindGrocery
)

// ErrNoJSONObject is reported when the cleaned reply has no {...} span at all.
var ErrNoJSONObject = errors.New("no JSON object found")

var (
	// A tag is only stripped when it is "json" or ends its line, so prose
	// written straight after the fence keeps its first word.
	leadingFence  = regexp.MustCompile("^```(?:json|[A-Za-z0-9_+-]*[ \t]*(?:\r?\n|$))?")
	trailingFence = regexp.MustCompile("```$")
	// Greedy on purpose: first '{' through last '}', across newlines.
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// Result is a normalized reply. Body is always a JSON object valid for Kind.
type Result struct {
	Kind     Kind
	Body     json.RawMessage
	Fallback bool
	Reason   error
}

// MarshalJSON writes the body unchanged so a Result can be encoded directly.
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.Body) == 0 {
		return []byte("{}"), nil
	}
	return r.Body, nil
}

// CleanReply trims the reply and removes a leading ```lang fence and a trailing ``` fence.
func CleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the span from the first '{' to the last '}'.
// Several objects in one reply come back as a single span, which then fails to decode.
func ExtractJSONObject(s string) (string, error) {
	span := objectSpan.FindString(s)
	if span == "" {
		return "", ErrNoJSONObject
	}
	return span, nil
}

// Normalize never fails: a reply that does not hold a JSON object resolves to
// the fallback for kind, with the reason kept on the result and logged.
func Normalize(raw string, kind Kind) Result {
	cleaned := CleanReply(raw)

	span, err := ExtractJSONObject(cleaned)
	if err == nil {
		var body json.RawMessage
		if body, err = decodeObject(span); err == nil {
			return Result{Kind: kind, Body: body}
		}
	}

	logger.Warn("Model reply JSON parse error", "kind", string(kind), "error", err)
	return Fallback(kind, cleaned, err)
}

// Fallback builds the schema-valid default for kind. Recipes carry the
// cleaned reply as their only step so the user still sees what the model said.
func Fallback(kind Kind, cleaned string, reason error) Result {
	var v any
	switch kind {
	case Recipe:
		v = models.Recipe{
			Name:          "AI Generated Recipe",
			Ingredients:   []models.RecipeIngredient{},
			Steps:         []string{cleaned},
			TotalCalories: "Not available",
			Protein:       "Not available",
		}
	case Grocery:
		v = models.GroceryList{Items: []models.GroceryItem{}}
	default:
		v = struct{}{}
	}

	// Marshalling these fixed shapes cannot fail.
	body, _ := json.Marshal(v)
	return Result{Kind: kind, Body: body, Fallback: true, Reason: reason}
}

// decodeObject checks span is exactly one JSON object and returns it compacted,
// keeping key order and number literals as the model wrote them.
func decodeObject(span string) (json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode JSON object: unexpected data after object")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(span)); err != nil {
		return nil, fmt.Errorf("compact JSON object: %w", err)
	}
	return buf.Bytes(), nil
}
