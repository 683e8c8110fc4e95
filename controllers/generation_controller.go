package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pmitra96/recipe-backend/logger"
	"github.com/pmitra96/recipe-backend/services"
)

// upstreamErrorMessage is all a client sees of a failed completion call.
const upstreamErrorMessage = "Failed to get a response from the AI model"

type RecipeRequest struct {
	Ingredients string `json:"ingredients"`
	Diet        string `json:"diet"`
}

type GroceryRequest struct {
	Ingredients string `json:"ingredients"`
}

// GenerationController serves the two generate endpoints. Parse failures of
// the model reply are answered with the fallback body and HTTP 200.
type GenerationController struct {
	service *services.GenerationService
}

func NewGenerationController(service *services.GenerationService) *GenerationController {
	return &GenerationController{service: service}
}

func (c *GenerationController) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received recipe generation request")

	var req RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Ingredients) == "" {
		writeError(w, http.StatusBadRequest, "No ingredients provided")
		return
	}

	result, err := c.service.GenerateRecipe(r.Context(), req.Ingredients, req.Diet, strictMode(r))
	if err != nil {
		logger.Error("Failed to generate recipe", "error", err)
		writeError(w, http.StatusInternalServerError, upstreamErrorMessage)
		return
	}

	logger.Info("Recipe generated", "diet", req.Diet, "fallback", result.Fallback)
	writeJSON(w, http.StatusOK, result)
}

func (c *GenerationController) GenerateGrocery(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received grocery list request")

	var req GroceryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Ingredients) == "" {
		writeError(w, http.StatusBadRequest, "No ingredients provided")
		return
	}

	result, err := c.service.GenerateGroceryList(r.Context(), req.Ingredients, strictMode(r))
	if err != nil {
		logger.Error("Failed to generate grocery list", "error", err)
		writeError(w, http.StatusInternalServerError, upstreamErrorMessage)
		return
	}

	logger.Info("Grocery list generated", "fallback", result.Fallback)
	writeJSON(w, http.StatusOK, result)
}

// strictMode reads ?strict=true; anything unparseable means off.
func strictMode(r *http.Request) bool {
	strict, _ := strconv.ParseBool(r.URL.Query().Get("strict"))
	return strict
}
