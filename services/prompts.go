package services

import "fmt"

const recipeSystemPrompt = "You are a strict JSON generator. " +
	"Return ONLY valid JSON. " +
	"No explanation. No markdown. No extra text."

const grocerySystemPrompt = "You are a strict JSON generator. " +
	"Return ONLY valid JSON. " +
	"No explanation. No markdown."

func recipePrompt(ingredients, diet string) string {
	return fmt.Sprintf(`
Generate a recipe strictly in JSON format:

{
  "name": "Recipe Name",
  "ingredients": [
      {"item": "ingredient1", "calories": "calories value"},
      {"item": "ingredient2", "calories": "calories value"}
  ],
  "steps": ["Step 1", "Step 2"],
  "total_calories": "Approx total calories",
  "protein": "Approx protein grams"
}

Ingredients provided: %s
Diet preference: %s

Return ONLY valid JSON.
`, ingredients, diet)
}

func groceryPrompt(ingredients string) string {
	return fmt.Sprintf(`
Generate a grocery shopping list strictly in JSON format:

{
  "items": [
      {"name": "ingredient1", "quantity": "estimated quantity"},
      {"name": "ingredient2", "quantity": "estimated quantity"}
  ]
}

Based on these ingredients: %s

Return ONLY valid JSON.
`, ingredients)
}
