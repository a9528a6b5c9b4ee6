package strategy

import (
	"go-doc-inspector/pkg/models"
)

// RoutingStrategy defines the interface for turning per-page layout stats
// into a page-level routing plan
type RoutingStrategy interface {
	BuildPlan(pages []models.PageStats) *models.RoutingPlan
	GetStrategyName() string
}

// OCRRoutingStrategy sends every page to the OCR engine
type OCRRoutingStrategy struct{}

// NewOCRRoutingStrategy creates a new OCR routing strategy
func NewOCRRoutingStrategy() RoutingStrategy {
	return &OCRRoutingStrategy{}
}

// BuildPlan routes all pages to OCR
func (s *OCRRoutingStrategy) BuildPlan(pages []models.PageStats) *models.RoutingPlan {
	plan := &models.RoutingPlan{Strategy: s.GetStrategyName()}
	for _, page := range pages {
		plan.OCRPages = append(plan.OCRPages, page.Index)
	}
	return plan
}

// GetStrategyName returns the strategy name
func (s *OCRRoutingStrategy) GetStrategyName() string {
	return string(models.RecommendOCR)
}

// TextExtractRoutingStrategy sends every page to direct text extraction
type TextExtractRoutingStrategy struct{}

// NewTextExtractRoutingStrategy creates a new text-extract routing strategy
func NewTextExtractRoutingStrategy() RoutingStrategy {
	return &TextExtractRoutingStrategy{}
}

// BuildPlan routes all pages to text extraction
func (s *TextExtractRoutingStrategy) BuildPlan(pages []models.PageStats) *models.RoutingPlan {
	plan := &models.RoutingPlan{Strategy: s.GetStrategyName()}
	for _, page := range pages {
		plan.TextPages = append(plan.TextPages, page.Index)
	}
	return plan
}

// GetStrategyName returns the strategy name
func (s *TextExtractRoutingStrategy) GetStrategyName() string {
	return string(models.RecommendTextExtract)
}

// HybridRoutingStrategy splits pages by dominance: image-dominant pages go
// to OCR, every other page to text extraction
type HybridRoutingStrategy struct{}

// NewHybridRoutingStrategy creates a new hybrid routing strategy
func NewHybridRoutingStrategy() RoutingStrategy {
	return &HybridRoutingStrategy{}
}

// BuildPlan routes pages individually based on per-page dominance
func (s *HybridRoutingStrategy) BuildPlan(pages []models.PageStats) *models.RoutingPlan {
	plan := &models.RoutingPlan{Strategy: s.GetStrategyName()}
	for _, page := range pages {
		if page.ImageDominant {
			plan.OCRPages = append(plan.OCRPages, page.Index)
		} else {
			plan.TextPages = append(plan.TextPages, page.Index)
		}
	}
	return plan
}

// GetStrategyName returns the strategy name
func (s *HybridRoutingStrategy) GetStrategyName() string {
	return string(models.RecommendHybrid)
}

// ForRecommendation returns the routing strategy matching a document-level
// recommendation. Unknown values fall back to hybrid routing.
func ForRecommendation(rec models.Recommendation) RoutingStrategy {
	switch rec {
	case models.RecommendOCR:
		return NewOCRRoutingStrategy()
	case models.RecommendTextExtract:
		return NewTextExtractRoutingStrategy()
	default:
		return NewHybridRoutingStrategy()
	}
}

// RoutingContext manages the active routing strategy
type RoutingContext struct {
	strategy RoutingStrategy
}

// NewRoutingContext creates a new routing context
func NewRoutingContext(strategy RoutingStrategy) *RoutingContext {
	return &RoutingContext{
		strategy: strategy,
	}
}

// SetStrategy changes the routing strategy
func (c *RoutingContext) SetStrategy(strategy RoutingStrategy) {
	c.strategy = strategy
}

// ExecuteRouting builds a plan using the current strategy
func (c *RoutingContext) ExecuteRouting(pages []models.PageStats) *models.RoutingPlan {
	return c.strategy.BuildPlan(pages)
}

// GetCurrentStrategy returns the current strategy name
func (c *RoutingContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}
