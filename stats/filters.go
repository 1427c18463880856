package stats

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/zalepa/campuscrime/dataset"
)

// Sentinel selections that mean "no filter".
const (
	AllYears = "All Years"
	AllTypes = "All Types"
)

// DefaultTopLocations is the number of locations kept by TopLocations.
const DefaultTopLocations = 15

// ErrInvalidFilter wraps every filter validation failure.
var ErrInvalidFilter = errors.New("invalid filter")

// DailyFilters selects what the daily summaries cover. Empty fields mean no
// filter.
type DailyFilters struct {
	// CrimeType restricts the monthly series.
	CrimeType string `json:"crimeType" form:"crimeType"`
	// TimeCrimeType restricts the hourly averages.
	TimeCrimeType string `json:"timeCrimeType" form:"timeCrimeType"`
	StartMonth    string `json:"start" form:"start" validate:"omitempty,datetime=2006-01"`
	EndMonth      string `json:"end" form:"end" validate:"omitempty,datetime=2006-01"`
	TopLocations  int    `json:"top" form:"top" validate:"gte=0,lte=1000"`
}

// YearlyFilters selects what the yearly summaries cover.
type YearlyFilters struct {
	Offense  string `json:"offense" form:"offense"`
	Year     string `json:"year" form:"year" validate:"omitempty,len=4,numeric"`
	Location string `json:"location" form:"location" validate:"omitempty,location"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func filterValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("location", func(fl validator.FieldLevel) bool {
			_, ok := dataset.ParseLocation(fl.Field().String())
			return ok
		})
	})
	return validate
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == AllYears || s == AllTypes
}

func clean(s string) string {
	if isAll(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// Normalize trims the filters and maps the "All ..." sentinels to empty.
func (f DailyFilters) Normalize() DailyFilters {
	f.CrimeType = clean(f.CrimeType)
	f.TimeCrimeType = clean(f.TimeCrimeType)
	f.StartMonth = strings.TrimSpace(f.StartMonth)
	f.EndMonth = strings.TrimSpace(f.EndMonth)
	return f
}

// Validate checks month bounds and the location limit.
func (f DailyFilters) Validate() error {
	f = f.Normalize()
	if err := filterValidator().Struct(f); err != nil {
		return describe(err)
	}
	if f.StartMonth != "" && f.EndMonth != "" && f.StartMonth > f.EndMonth {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidFilter, f.StartMonth, f.EndMonth)
	}
	return nil
}

// Normalize trims the filters and maps the "All ..." sentinels to empty.
func (f YearlyFilters) Normalize() YearlyFilters {
	f.Offense = clean(f.Offense)
	f.Year = clean(f.Year)
	f.Location = strings.TrimSpace(f.Location)
	return f
}

// Validate checks the year and location.
func (f YearlyFilters) Validate() error {
	if err := filterValidator().Struct(f.Normalize()); err != nil {
		return describe(err)
	}
	return nil
}

// location resolves the year-over-year location, defaulting to the first one.
func (f YearlyFilters) location() dataset.Location {
	if loc, ok := dataset.ParseLocation(f.Location); ok {
		return loc
	}
	return dataset.ResidentialFacility
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be YYYY-MM, got %q", fe.Field(), fe.Value()))
		case "len", "numeric":
			msgs = append(msgs, fmt.Sprintf("%s must be a four digit year, got %q", fe.Field(), fe.Value()))
		case "location":
			msgs = append(msgs, fmt.Sprintf("%s %q is not a known location", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidFilter, strings.Join(msgs, "; "))
}
