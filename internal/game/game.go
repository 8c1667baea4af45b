package game

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxCommunityActivity is the top of the community-activity scale.
const MaxCommunityActivity = 10

// StoreURL is a single storefront link for a game.
type StoreURL struct {
	Platform string `json:"platform" yaml:"platform" validate:"notblank"`
	URL      string `json:"url" yaml:"url" validate:"required,http_url"`
}

// Game is one recommendation card as produced by the LLM gateway. The JSON
// shape is the wire contract the UI depends on. CommunityActivity is a pointer
// so that an absent score is told apart from a score of 0.
type Game struct {
	Title             string     `json:"title" yaml:"title" validate:"notblank"`
	Genre             string     `json:"genre" yaml:"genre" validate:"notblank"`
	Summary           string     `json:"summary" yaml:"summary" validate:"notblank"`
	Price             string     `json:"price" yaml:"price" validate:"notblank"`
	RecentReviewTrend string     `json:"recentReviewTrend,omitempty" yaml:"recentReviewTrend,omitempty"`
	CommunityActivity *float64   `json:"communityActivity" yaml:"communityActivity" validate:"required,gte=0,lte=10"`
	StoreURLs         []StoreURL `json:"storeUrls,omitempty" yaml:"storeUrls,omitempty" validate:"dive"`
}

// Activity returns a pointer to v for building Game literals.
func Activity(v float64) *float64 {
	return &v
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report wire names (communityActivity, storeUrls[0].url) rather than Go names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the game against the wire contract. It rejects rather than
// coerces: a game with a missing required field or an out-of-range score is an
// error, never silently repaired.
func (g Game) Validate() error {
	err := validate.Struct(g)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrMissingField, err)
	}
	return fieldError(g, verrs[0])
}

// fieldError maps the first failed rule onto the package's sentinel errors.
func fieldError(g Game, fe validator.FieldError) error {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	switch {
	case fe.Field() == "url":
		return fmt.Errorf("%w: %s %q", ErrInvalidStoreURL, path, fe.Value())
	case fe.Field() == "communityActivity" && fe.Tag() != "required":
		return fmt.Errorf("%w: communityActivity %v (title %q)", ErrActivityOutOfRange, *g.CommunityActivity, g.Title)
	default:
		return fmt.Errorf("%w: %s", ErrMissingField, path)
	}
}

// ValidateAll validates every game, returning the first failure annotated with
// its index.
func ValidateAll(games []Game) error {
	for i, g := range games {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("recommendations[%d]: %w", i, err)
		}
	}
	return nil
}

// SameAs reports whether two games are the same for UI purposes. Identity is
// the title only; duplicate titles from the LLM collide.
func (g Game) SameAs(other Game) bool {
	return g.Title == other.Title
}

// HealthScore is the community-activity score clamped to the display range.
// An absent score counts as 0.
func (g Game) HealthScore() float64 {
	switch {
	case g.CommunityActivity == nil || *g.CommunityActivity < 0:
		return 0
	case *g.CommunityActivity > MaxCommunityActivity:
		return MaxCommunityActivity
	default:
		return *g.CommunityActivity
	}
}

// HealthPercent is HealthScore scaled to 0..100 for progress bars.
func (g Game) HealthPercent() int {
	return int(g.HealthScore() * 10)
}
