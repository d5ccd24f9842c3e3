package roadmap

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pathfinder-ai/pathfinder/internal/model"
)

// durationPattern matches "(number) unit" pairs such as "2 weeks", "3-day",
// "1.5 months" or "2-3 weeks" (lower bound). A bare unit counts as one.
var durationPattern = regexp.MustCompile(
	`(?:(\d+(?:\.\d+)?)(?:\s*(?:-|–|to)\s*\d+(?:\.\d+)?)?\s*-?\s*|\b)(months?|mos?|weeks?|wks?|days?)\b`,
)

var unitDays = map[byte]float64{
	'm': 30,
	'w': 7,
	'd': 1,
}

// EstimateDuration converts a free-text duration to whole days. Every
// recognised pair is summed; text without a recognised unit counts as one day.
func EstimateDuration(duration string) int {
	matches := durationPattern.FindAllStringSubmatch(strings.ToLower(duration), -1)
	if len(matches) == 0 {
		return 1
	}

	var total float64
	for _, m := range matches {
		n := 1.0
		if m[1] != "" {
			parsed, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				n = parsed
			}
		}
		total += n * unitDays[m[2][0]]
	}

	days := int(math.Ceil(total))
	if days < 1 {
		return 1
	}
	return days
}

// EstimateRemainingDays sums the estimated duration of every pending item.
// Items already in progress are not counted. The result is at least 1.
func EstimateRemainingDays(phases []model.RoadmapPhase) int {
	total := 0
	for _, p := range phases {
		for _, item := range p.Items {
			if item.Status != model.ItemStatusPending {
				continue
			}
			total += EstimateDuration(item.Duration)
		}
	}
	if total < 1 {
		return 1
	}
	return total
}
