package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pmitra96/recipe-backend/logger"
	"github.com/pmitra96/recipe-backend/models"
)

// SchemaError reports a decoded reply that is valid JSON but not the expected shape.
type SchemaError struct {
	Field   string
	Problem string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s %s", e.Field, e.Problem)
}

// DecodeRecipe extracts and decodes a recipe reply, rejecting replies that
// lack a name, an ingredients list or any steps.
func DecodeRecipe(raw string) (*models.Recipe, error) {
	return decodeRecipe(CleanReply(raw))
}

// DecodeGroceryList extracts and decodes a grocery reply, rejecting replies
// without an items list or with unnamed items.
func DecodeGroceryList(raw string) (*models.GroceryList, error) {
	return decodeGroceryList(CleanReply(raw))
}

// NormalizeStrict is Normalize with typed validation: the body is re-encoded
// from the typed value, so keys outside the schema are dropped. Any failure
// still resolves to the fallback.
func NormalizeStrict(raw string, kind Kind) Result {
	cleaned := CleanReply(raw)

	var (
		v   any
		err error
	)
	switch kind {
	case Recipe:
		v, err = decodeRecipe(cleaned)
	case Grocery:
		v, err = decodeGroceryList(cleaned)
	default:
		err = fmt.Errorf("unknown kind %q", kind)
	}

	if err == nil {
		var body []byte
		if body, err = json.Marshal(v); err == nil {
			return Result{Kind: kind, Body: body}
		}
	}

	logger.Warn("Model reply failed strict decode", "kind", string(kind), "error", err)
	return Fallback(kind, cleaned, err)
}

func decodeRecipe(cleaned string) (*models.Recipe, error) {
	var r models.Recipe
	if err := decodeInto(cleaned, &r); err != nil {
		return nil, err
	}

	if strings.TrimSpace(r.Name) == "" {
		return nil, &SchemaError{Field: "name", Problem: "is missing"}
	}
	if r.Ingredients == nil {
		return nil, &SchemaError{Field: "ingredients", Problem: "is missing"}
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Item) == "" {
			return nil, &SchemaError{Field: fmt.Sprintf("ingredients[%d].item", i), Problem: "is empty"}
		}
	}
	if len(r.Steps) == 0 {
		return nil, &SchemaError{Field: "steps", Problem: "is empty"}
	}
	return &r, nil
}

func decodeGroceryList(cleaned string) (*models.GroceryList, error) {
	var g models.GroceryList
	if err := decodeInto(cleaned, &g); err != nil {
		return nil, err
	}

	if g.Items == nil {
		return nil, &SchemaError{Field: "items", Problem: "is missing"}
	}
	for i, item := range g.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, &SchemaError{Field: fmt.Sprintf("items[%d].name", i), Problem: "is empty"}
		}
	}
	return &g, nil
}

func decodeInto(cleaned string, v any) error {
	span, err := ExtractJSONObject(cleaned)
	if err != nil {
		return err
	}
	body, err := decodeObject(span)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
