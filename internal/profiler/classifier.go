package profiler

import (
	"fmt"
	"strings"

	"go-doc-inspector/pkg/models"
)

// Document-level classification thresholds.
const (
	// ImagePageFraction is the minimum fraction of image-dominant pages for
	// a whole-document OCR recommendation.
	ImagePageFraction = 0.60
	// TextPageFraction is the minimum fraction of text-dominant pages for a
	// whole-document text-extract recommendation.
	TextPageFraction = 0.90
)

// Classify aggregates a profile's per-page dominance counts into a
// document-level recommendation with a human-readable rationale. The result
// is deterministic for identical page stats.
func Classify(profile *models.LayoutProfile) (models.Recommendation, string) {
	if profile.PageCount == 0 {
		return models.RecommendHybrid, ""
	}

	total := float64(profile.PageCount)
	fracImage := float64(profile.ImageDominantPageCount) / total
	fracText := float64(profile.TextDominantPageCount) / total

	var rec models.Recommendation
	var rationale string
	switch {
	case fracImage >= ImagePageFraction:
		rec = models.RecommendOCR
		rationale = fmt.Sprintf("%d of %d pages are image-dominant (>= %.0f%%)",
			profile.ImageDominantPageCount, profile.PageCount, ImagePageFraction*100)
	case fracText >= TextPageFraction:
		rec = models.RecommendTextExtract
		rationale = fmt.Sprintf("%d of %d pages are text-dominant",
			profile.TextDominantPageCount, profile.PageCount)
	default:
		rec = models.RecommendHybrid
		rationale = fmt.Sprintf("mixed layout: %d image-dominant, %d text-dominant, %d mixed pages",
			profile.ImageDominantPageCount, profile.TextDominantPageCount, profile.MixedPageCount)
	}

	// A scanning tool in the Producer field undercuts a text-extract call:
	// such documents often carry a sparse invisible text layer. The override
	// only ever demotes text-extract to hybrid.
	if rec == models.RecommendTextExtract && producerSuggestsScanner(profile.Metadata) {
		rec = models.RecommendHybrid
		rationale += "; producer metadata suggests a scanning tool"
	}

	return rec, rationale
}

func producerSuggestsScanner(metadata map[string]string) bool {
	producer, ok := metadata["Producer"]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(producer), "scan")
}
