package analytics

import (
	"ScholarsBox/internal/scholarship"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Range is an inclusive integer interval parsed from "min-max".
type Range struct {
	Min int
	Max int
}

// Filter is the set of optional analytics constraints. Zero values mean
// "no constraint".
type Filter struct {
	ScholarshipName    string
	Status             string
	Category           string
	Gender             string
	State              string
	ScholarshipID      string
	CoachingState      string
	GuardianOccupation string

	Age          *Range
	FamilyIncome *Range

	Grade10       *float64
	Grade12       *float64
	Graduation    *float64
	PwdPercentage *float64

	IsMinority              *bool
	PostGraduationCompleted *bool
}

// ParseFilter reads the analytics query parameters. Values that are empty,
// "all" or unparseable leave the field unconstrained.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		ScholarshipName:    param(q, "type", "scholarshipName"),
		Status:             parseStatus(param(q, "status")),
		Category:           param(q, "category"),
		Gender:             scholarship.NormalizeGender(param(q, "gender")),
		State:              param(q, "state"),
		ScholarshipID:      param(q, "scholarshipID", "scholarshipId"),
		CoachingState:      param(q, "coachingState"),
		GuardianOccupation: param(q, "guardianOccupation"),
		Age:                parseRange(param(q, "age")),
		FamilyIncome:       parseRange(param(q, "familyIncome")),
		Grade10:            parseThreshold(param(q, "grade10")),
		Grade12:            parseThreshold(param(q, "grade12")),
		Graduation:         parseThreshold(param(q, "graduation")),
		PwdPercentage:      parseThreshold(param(q, "pwdPercentage")),
	}
	if v := param(q, "isMinority"); v != "" {
		f.IsMinority = scholarship.CoerceBoolean(v)
	}
	if v := param(q, "postGraduationCompleted", "postGraduation"); v != "" {
		f.PostGraduationCompleted = scholarship.CoerceBoolean(v)
	}
	return f
}

// param returns the first non-empty value among keys, treating "all" as empty.
func param(q url.Values, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(q.Get(k))
		if v == "" || strings.EqualFold(v, "all") {
			continue
		}
		return v
	}
	return ""
}

func parseStatus(v string) string {
	switch strings.ToLower(strings.Join(strings.Fields(v), "")) {
	case "selected":
		return scholarship.StatusSelected
	case "notselected":
		return scholarship.StatusNotSelected
	default:
		return ""
	}
}

func parseRange(v string) *Range {
	parts := strings.Split(v, "-")
	if len(parts) != 2 {
		return nil
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return &Range{Min: lo, Max: hi}
}

func parseThreshold(v string) *float64 {
	if v == "" {
		return nil
	}
	return scholarship.CoerceNumber(v)
}

// Predicate renders the filter as a MongoDB query document.
func (f Filter) Predicate() bson.M {
	pred := bson.M{}
	eq := map[string]string{
		"scholarshipName":    f.ScholarshipName,
		"status":             f.Status,
		"category":           f.Category,
		"gender":             f.Gender,
		"state":              f.State,
		"scholarshipID":      f.ScholarshipID,
		"coachingState":      f.CoachingState,
		"guardianOccupation": f.GuardianOccupation,
	}
	for field, v := range eq {
		if v != "" {
			pred[field] = v
		}
	}

	if f.Age != nil {
		pred["age"] = bson.M{"$gte": f.Age.Min, "$lte": f.Age.Max}
	}
	if f.FamilyIncome != nil {
		pred["familyAnnualIncome"] = bson.M{"$gte": f.FamilyIncome.Min, "$lte": f.FamilyIncome.Max}
	}

	gte := map[string]*float64{
		"class10Percentage":    f.Grade10,
		"class12Percentage":    f.Grade12,
		"graduationPercentage": f.Graduation,
		"pwdPercentage":        f.PwdPercentage,
	}
	for field, v := range gte {
		if v != nil {
			pred[field] = bson.M{"$gte": *v}
		}
	}

	if f.IsMinority != nil {
		pred["isMinority"] = *f.IsMinority
	}
	if f.PostGraduationCompleted != nil {
		pred["postGraduationCompleted"] = *f.PostGraduationCompleted
	}
	return pred
}
