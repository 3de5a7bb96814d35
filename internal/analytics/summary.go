package analytics

import (
	"ScholarsBox/internal/scholarship"
	"math"
	"sort"
)

const unknownGroup = "Unknown"

type GenderCount struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Other  int `json:"other"`
}

// GroupCount is a selected / not-selected split for one group key.
type GroupCount struct {
	Key         string `json:"_id"`
	Total       int    `json:"total"`
	Selected    int    `json:"selected"`
	NotSelected int    `json:"notSelected"`
}

type StateScholarshipGroup struct {
	State           string  `json:"state"`
	ScholarshipName string  `json:"scholarshipName"`
	Total           int     `json:"total"`
	Male            int     `json:"male"`
	Female          int     `json:"female"`
	Other           int     `json:"other"`
	TotalAmount     float64 `json:"totalAmount"`
	AmountDisbursed float64 `json:"amountDisbursed"`
}

type StateFinancials struct {
	State             string  `json:"state"`
	AverageGrade      float64 `json:"averageGrade"`
	TotalFamilyIncome float64 `json:"totalFamilyIncome"`
	TotalAmount       float64 `json:"totalAmount"`
}

type Applicant struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	State           string `json:"state"`
	ScholarshipName string `json:"scholarshipName"`
	Status          string `json:"status"`
}

// Summary is the analytics payload for one filter.
type Summary struct {
	TotalScholarships    int                     `json:"totalScholarships"`
	SelectCount          int                     `json:"selectCount"`
	NotSelectCount       int                     `json:"notSelectCount"`
	GenderCount          GenderCount             `json:"genderCount"`
	StateCounts          []GroupCount            `json:"stateCounts"`
	CategoryCounts       []GroupCount            `json:"categoryCounts"`
	ScholarshipCounts    []GroupCount            `json:"scholarshipCounts"`
	StateScholarship     []StateScholarshipGroup `json:"stateScholarshipCounts"`
	FinancialsByState    []StateFinancials       `json:"financialsByState"`
	TotalAmountDisbursed float64                 `json:"totalAmountDisbursed"`
	Applicants           []Applicant             `json:"applicants"`
}

// DashboardCounts is the unfiltered headline for the dashboard cards.
type DashboardCounts struct {
	TotalScholarships int64 `json:"totalScholarships"`
	SelectCount       int64 `json:"selectCount"`
	NotSelectCount    int64 `json:"notSelectCount"`
}

type stateFinanceAcc struct {
	gradeSum    float64
	gradeCount  int
	income      float64
	totalAmount float64
}

type stateScholarshipKey struct {
	state       string
	scholarship string
}

// Summarize groups the filtered records. Output slices are sorted by key.
func Summarize(recs []*scholarship.ScholarshipRecord) *Summary {
	s := &Summary{Applicants: make([]Applicant, 0, len(recs))}
	byState := map[string]*GroupCount{}
	byCategory := map[string]*GroupCount{}
	byScholarship := map[string]*GroupCount{}
	byStateScholarship := map[stateScholarshipKey]*StateScholarshipGroup{}
	finance := map[string]*stateFinanceAcc{}

	for _, rec := range recs {
		selected := rec.IsSelected()
		s.TotalScholarships++
		if selected {
			s.SelectCount++
		} else {
			s.NotSelectCount++
		}

		switch rec.Gender {
		case "male":
			s.GenderCount.Male++
		case "female":
			s.GenderCount.Female++
		case "other":
			s.GenderCount.Other++
		}

		state := groupKey(rec.State)
		name := groupKey(rec.ScholarshipName)
		countGroup(byState, state, selected)
		countGroup(byCategory, groupKey(rec.Category), selected)
		countGroup(byScholarship, name, selected)

		ssKey := stateScholarshipKey{state: state, scholarship: name}
		ss := byStateScholarship[ssKey]
		if ss == nil {
			ss = &StateScholarshipGroup{State: state, ScholarshipName: name}
			byStateScholarship[ssKey] = ss
		}
		ss.Total++
		switch rec.Gender {
		case "male":
			ss.Male++
		case "female":
			ss.Female++
		case "other":
			ss.Other++
		}
		ss.TotalAmount += value(rec.TotalAmount)
		ss.AmountDisbursed += value(rec.AmountDisbursed)

		fin := finance[state]
		if fin == nil {
			fin = &stateFinanceAcc{}
			finance[state] = fin
		}
		if grade, ok := recordGrade(rec); ok {
			fin.gradeSum += grade
			fin.gradeCount++
		}
		fin.income += value(rec.FamilyAnnualIncome)
		fin.totalAmount += value(rec.TotalAmount)

		s.TotalAmountDisbursed += value(rec.AmountDisbursed)
		s.Applicants = append(s.Applicants, Applicant{
			Name:            rec.Name,
			Email:           rec.Email,
			State:           rec.State,
			ScholarshipName: rec.ScholarshipName,
			Status:          rec.Status,
		})
	}

	s.StateCounts = sortedGroups(byState)
	s.CategoryCounts = sortedGroups(byCategory)
	s.ScholarshipCounts = sortedGroups(byScholarship)

	s.StateScholarship = make([]StateScholarshipGroup, 0, len(byStateScholarship))
	for _, g := range byStateScholarship {
		s.StateScholarship = append(s.StateScholarship, *g)
	}
	sort.Slice(s.StateScholarship, func(i, j int) bool {
		a, b := s.StateScholarship[i], s.StateScholarship[j]
		if a.State != b.State {
			return a.State < b.State
		}
		return a.ScholarshipName < b.ScholarshipName
	})

	s.FinancialsByState = make([]StateFinancials, 0, len(finance))
	for state, fin := range finance {
		sf := StateFinancials{State: state, TotalFamilyIncome: fin.income, TotalAmount: fin.totalAmount}
		if fin.gradeCount > 0 {
			sf.AverageGrade = round2(fin.gradeSum / float64(fin.gradeCount))
		}
		s.FinancialsByState = append(s.FinancialsByState, sf)
	}
	sort.Slice(s.FinancialsByState, func(i, j int) bool {
		return s.FinancialsByState[i].State < s.FinancialsByState[j].State
	})
	return s
}

func groupKey(v string) string {
	if v == "" {
		return unknownGroup
	}
	return v
}

func countGroup(groups map[string]*GroupCount, key string, selected bool) {
	g := groups[key]
	if g == nil {
		g = &GroupCount{Key: key}
		groups[key] = g
	}
	g.Total++
	if selected {
		g.Selected++
	} else {
		g.NotSelected++
	}
}

func sortedGroups(groups map[string]*GroupCount) []GroupCount {
	out := make([]GroupCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// recordGrade is the mean of the academic percentages the record has.
func recordGrade(rec *scholarship.ScholarshipRecord) (float64, bool) {
	var sum float64
	var n int
	for _, p := range []*float64{rec.Class10Percentage, rec.Class12Percentage, rec.GraduationPercentage} {
		if p != nil {
			sum += *p
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
