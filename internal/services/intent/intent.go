package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

// Kind classifies what a prompt is asking for.
type Kind int

const (
	KindNone Kind = iota
	KindCurrent
	KindForecast
)

const (
	defaultDays = 3
	maxDays     = 5
)

// Query is the structured reading of a natural-language prompt.
type Query struct {
	Kind     Kind
	Location models.Location
	Days     int
}

var (
	weatherRe  = regexp.MustCompile(`(?i)\b(weather|temperature|temp|rain|raining|snow|snowing|sunny|cloudy|humid|humidity|wind|windy|hot|cold|warm|umbrella|sunrise|sunset|forecast)\b`)
	forecastRe = regexp.MustCompile(`(?i)\b(forecast|tomorrow|next\s+(?:few\s+)?days?|this\s+week|coming\s+days|later\s+this\s+week|weekend)\b`)
	daysRe     = regexp.MustCompile(`(?i)\b(\d+)[\s-]*day`)
	zipRe      = regexp.MustCompile(`\b(\d{5})\b`)
	locationRe = regexp.MustCompile(`(?i)\b(?:in|for|at|near)\s+([\p{L}][\p{L}\s.'-]*)`)

	// trailing words that belong to the question, not the place name
	locationStop = regexp.MustCompile(`(?i)\s+(today|tomorrow|now|right\s+now|this\s+week|this\s+weekend|next.*|please)$`)
)

// Detector turns free-text prompts into weather queries.
type Detector struct {
	defaultCountry string
}

func NewDetector(defaultCountry string) *Detector {
	return &Detector{defaultCountry: defaultCountry}
}

// Detect classifies the prompt and extracts a location when one is present.
// A prompt with no weather vocabulary at all yields KindNone.
func (d *Detector) Detect(text string) Query {
	t := strings.TrimSpace(text)
	if t == "" || !weatherRe.MatchString(t) {
		return Query{Kind: KindNone}
	}

	q := Query{Kind: KindCurrent, Days: defaultDays}
	if forecastRe.MatchString(t) {
		q.Kind = KindForecast
		if m := daysRe.FindStringSubmatch(t); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				q.Days = n
			}
		}
		if q.Days > maxDays {
			q.Days = maxDays
		}
	}

	q.Location = d.location(t)
	return q
}

func (d *Detector) location(t string) models.Location {
	if m := zipRe.FindStringSubmatch(t); m != nil {
		return models.Location{Query: m[1], Zip: true, Country: d.defaultCountry}
	}

	m := locationRe.FindStringSubmatch(t)
	if m == nil {
		return models.Location{Country: d.defaultCountry}
	}

	place := strings.TrimSpace(m[1])
	place = locationStop.ReplaceAllString(place, "")
	place = strings.Trim(place, " ?.!,")

	return models.Location{Query: place, Country: d.defaultCountry}
}
