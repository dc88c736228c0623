package query

import (
	"github.com/go-playground/validator/v10"
)

// Selection is the ephemeral filter state behind one catalog view.
// It is a value: actions return a new Selection and leave the old one intact.
type Selection struct {
	Search string    `json:"search"`
	Tags   []string  `json:"tags" validate:"dive,required"`
	Sort   SortLabel `json:"sort" validate:"sortlabel"`
	Count  int       `json:"count" validate:"gte=0"`
}

// DefaultSelection is the state of a freshly mounted view
func DefaultSelection() Selection {
	return Selection{Sort: SortMostPopular, Tags: []string{}}
}

// Request composes the main grid request for this selection
func (s Selection) Request() Request {
	return Compose(s.Search, s.Tags, s.Sort)
}

// HasTag reports whether name is currently selected
func (s Selection) HasTag(name string) bool {
	return indexOf(s.Tags, name) >= 0
}

// Action transforms a selection into the next one
type Action func(Selection) Selection

// Apply runs actions in order and returns the resulting selection
func Apply(s Selection, actions ...Action) Selection {
	for _, act := range actions {
		s = act(s)
	}
	return s
}

func SetSearch(text string) Action {
	return func(s Selection) Selection {
		s.Tags = copyTagsNonNil(s.Tags)
		s.Search = text
		return s
	}
}

// ToggleTag removes name when selected, otherwise appends it at the end
func ToggleTag(name string) Action {
	return func(s Selection) Selection {
		if s.HasTag(name) {
			return RemoveTag(name)(s)
		}
		tags := make([]string, 0, len(s.Tags)+1)
		tags = append(tags, s.Tags...)
		s.Tags = append(tags, name)
		return s
	}
}

func RemoveTag(name string) Action {
	return func(s Selection) Selection {
		tags := make([]string, 0, len(s.Tags))
		for _, t := range s.Tags {
			if t != name {
				tags = append(tags, t)
			}
		}
		s.Tags = tags
		return s
	}
}

func ClearTags() Action {
	return func(s Selection) Selection {
		s.Tags = []string{}
		return s
	}
}

func SetSort(label SortLabel) Action {
	return func(s Selection) Selection {
		s.Tags = copyTagsNonNil(s.Tags)
		s.Sort = label
		return s
	}
}

// SetCount records the derived restaurant count
func SetCount(n int) Action {
	return func(s Selection) Selection {
		s.Tags = copyTagsNonNil(s.Tags)
		s.Count = n
		return s
	}
}

func Reset() Action {
	return func(Selection) Selection {
		return DefaultSelection()
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("sortlabel", func(fl validator.FieldLevel) bool {
		return IsSortLabel(SortLabel(fl.Field().String()))
	})
	return v
}

// Validate checks a selection received from outside the process
func Validate(s Selection) error {
	return validate.Struct(s)
}

func indexOf(tags []string, name string) int {
	for i, t := range tags {
		if t == name {
			return i
		}
	}
	return -1
}

func copyTagsNonNil(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
