package diet

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Accepted age range.
const (
	MinAge = 15
	MaxAge = 70
)

// Validation errors, one per failure kind.
var (
	ErrAgeRequired = errors.New("Age is required.")
	ErrAgeInvalid  = errors.New("Please enter a valid age.")
	ErrAgeTooLow   = errors.New("Age must be greater than or equal to 15.")
	ErrAgeTooHigh  = errors.New("Age must be less than or equal to 70.")
)

// Bucket is one of the static diet plans, selected by age.
type Bucket struct {
	Slug   string // URL segment under /diet/
	Title  string
	MinAge int
	MaxAge int
}

// The three buckets. Slugs keep their historical URLs, so the 31-50 bucket
// lives at /diet/30-50/.
var (
	BucketA = Bucket{Slug: "15-30", Title: "Diet plan for ages 15-30", MinAge: 15, MaxAge: 30}
	BucketB = Bucket{Slug: "30-50", Title: "Diet plan for ages 31-50", MinAge: 31, MaxAge: 50}
	BucketC = Bucket{Slug: "50-70", Title: "Diet plan for ages 51-70", MinAge: 51, MaxAge: 70}
)

// Buckets lists every bucket in age order.
var Buckets = []Bucket{BucketA, BucketB, BucketC}

// Path returns the page path for b.
func (b Bucket) Path() string {
	return "/diet/" + b.Slug + "/"
}

// BucketBySlug finds a bucket by its URL segment.
func BucketBySlug(slug string) (Bucket, bool) {
	for _, b := range Buckets {
		if b.Slug == slug {
			return b, true
		}
	}
	return Bucket{}, false
}

// trailingZeros matches "30.0", "30.00": whole numbers written with a zero fraction.
var trailingZeros = regexp.MustCompile(`\.0*$`)

// ParseAge converts a submitted age into an integer.
// PRE: raw is the submitted form value
// POST: Returns ErrAgeRequired for blank input, ErrAgeInvalid for non-integers
func ParseAge(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrAgeRequired
	}
	age, err := strconv.Atoi(trailingZeros.ReplaceAllString(raw, ""))
	if err != nil {
		return 0, ErrAgeInvalid
	}
	return age, nil
}

// RouteByAge maps an age in [MinAge, MaxAge] to its bucket.
func RouteByAge(age int) (Bucket, error) {
	if age < MinAge {
		return Bucket{}, ErrAgeTooLow
	}
	if age > MaxAge {
		return Bucket{}, ErrAgeTooHigh
	}
	for _, b := range Buckets {
		if age >= b.MinAge && age <= b.MaxAge {
			return b, nil
		}
	}
	return Bucket{}, ErrAgeInvalid
}

// Route parses and routes a submitted age in one step.
func Route(raw string) (Bucket, error) {
	age, err := ParseAge(raw)
	if err != nil {
		return Bucket{}, err
	}
	return RouteByAge(age)
}
