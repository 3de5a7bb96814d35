package scholarship

import (
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type fieldSetter func(rec *ScholarshipRecord, raw string)

func setString(dst func(*ScholarshipRecord) *string) fieldSetter {
	return func(rec *ScholarshipRecord, raw string) { *dst(rec) = trim(raw) }
}

func setNumber(dst func(*ScholarshipRecord) **float64) fieldSetter {
	return func(rec *ScholarshipRecord, raw string) { *dst(rec) = CoerceNumber(raw) }
}

func setInt(dst func(*ScholarshipRecord) **int) fieldSetter {
	return func(rec *ScholarshipRecord, raw string) { *dst(rec) = CoerceInt(raw) }
}

func setBool(dst func(*ScholarshipRecord) **bool) fieldSetter {
	return func(rec *ScholarshipRecord, raw string) { *dst(rec) = CoerceBoolean(raw) }
}

// Keys are normalized header names (see normalizeHeader).
var columnSetters = map[string]fieldSetter{
	"email":                   func(r *ScholarshipRecord, v string) { r.Email = NormalizeEmail(v) },
	"name":                    setString(func(r *ScholarshipRecord) *string { return &r.Name }),
	"contactnumber":           setString(func(r *ScholarshipRecord) *string { return &r.ContactNumber }),
	"age":                     setInt(func(r *ScholarshipRecord) **int { return &r.Age }),
	"status":                  func(r *ScholarshipRecord, v string) { r.Status = NormalizeStatus(v) },
	"scholarshipname":         setString(func(r *ScholarshipRecord) *string { return &r.ScholarshipName }),
	"gender":                  func(r *ScholarshipRecord, v string) { r.Gender = NormalizeGender(v) },
	"state":                   setString(func(r *ScholarshipRecord) *string { return &r.State }),
	"category":                setString(func(r *ScholarshipRecord) *string { return &r.Category }),
	"pwdpercentage":           setNumber(func(r *ScholarshipRecord) **float64 { return &r.PwdPercentage }),
	"isminority":              setBool(func(r *ScholarshipRecord) **bool { return &r.IsMinority }),
	"guardianoccupation":      setString(func(r *ScholarshipRecord) *string { return &r.GuardianOccupation }),
	"familyannualincome":      setNumber(func(r *ScholarshipRecord) **float64 { return &r.FamilyAnnualIncome }),
	"class10percentage":       setNumber(func(r *ScholarshipRecord) **float64 { return &r.Class10Percentage }),
	"class12percentage":       setNumber(func(r *ScholarshipRecord) **float64 { return &r.Class12Percentage }),
	"graduationpercentage":    setNumber(func(r *ScholarshipRecord) **float64 { return &r.GraduationPercentage }),
	"fieldofstudy":            setString(func(r *ScholarshipRecord) *string { return &r.FieldOfStudy }),
	"postgraduationcompleted": setBool(func(r *ScholarshipRecord) **bool { return &r.PostGraduationCompleted }),
	"cseattempts":             setInt(func(r *ScholarshipRecord) **int { return &r.CSEAttempts }),
	"upscprelimscleared":      setBool(func(r *ScholarshipRecord) **bool { return &r.UPSCPrelimsCleared }),
	"upscmainscleared":        setBool(func(r *ScholarshipRecord) **bool { return &r.UPSCMainsCleared }),
	"scholarshipid":           setString(func(r *ScholarshipRecord) *string { return &r.ScholarshipID }),
	"scholarshipawarded":      setBool(func(r *ScholarshipRecord) **bool { return &r.ScholarshipAwarded }),
	"totalamount":             setNumber(func(r *ScholarshipRecord) **float64 { return &r.TotalAmount }),
	"amountdisbursed":         setNumber(func(r *ScholarshipRecord) **float64 { return &r.AmountDisbursed }),
	"disbursementdate":        func(r *ScholarshipRecord, v string) { r.DisbursementDate = CoerceDate(v) },
	"coachinginstitute":       setString(func(r *ScholarshipRecord) *string { return &r.CoachingInstitute }),
	"coachingcity":            setString(func(r *ScholarshipRecord) *string { return &r.CoachingCity }),
	"coachingstate":           setString(func(r *ScholarshipRecord) *string { return &r.CoachingState }),
	"psychometricreport":      setString(func(r *ScholarshipRecord) *string { return &r.PsychometricReport }),
}

// recordFields maps a lower-cased bson name to the bson name itself, so a
// setter key resolves to the document field it writes.
var recordFields = func() map[string]string {
	fields := map[string]string{}
	t := reflect.TypeOf(ScholarshipRecord{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("bson"), ",")
		if name != "" && name != "-" {
			fields[strings.ToLower(name)] = name
		}
	}
	return fields
}()

var columnAliases = map[string]string{
	"emailid":            "email",
	"emailaddress":       "email",
	"fullname":           "name",
	"phone":              "contactnumber",
	"mobile":             "contactnumber",
	"contact":            "contactnumber",
	"scholarship":        "scholarshipname",
	"pwd":                "pwdpercentage",
	"minority":           "isminority",
	"familyincome":       "familyannualincome",
	"grade10":            "class10percentage",
	"grade12":            "class12percentage",
	"graduation":         "graduationpercentage",
	"graduationgrade":    "graduationpercentage",
	"postgraduation":     "postgraduationcompleted",
	"upscprelims":        "upscprelimscleared",
	"upscmains":          "upscmainscleared",
	"disbursedamount":    "amountdisbursed",
	"dateofdisbursement": "disbursementdate",
}

var installmentColumn = regexp.MustCompile(`^installment(\d+)(amount|status|date|datecompleted)$`)

var headerJunk = regexp.MustCompile(`[^a-z0-9]`)

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return headerJunk.ReplaceAllString(strings.ToLower(h), "")
}

type installmentCell struct {
	number int
	part   string
}

// columnMap resolves each CSV column index to the record field it feeds.
// fields is the set of bson fields the header supplies.
type columnMap struct {
	headers      []string
	setters      map[int]fieldSetter
	installments map[int]installmentCell
	fields       map[string]bool
}

func newColumnMap(headers []string) *columnMap {
	m := &columnMap{
		headers:      make([]string, len(headers)),
		setters:      make(map[int]fieldSetter),
		installments: make(map[int]installmentCell),
		fields:       make(map[string]bool),
	}
	for i, h := range headers {
		m.headers[i] = trim(strings.TrimPrefix(h, "\ufeff"))
		key := normalizeHeader(h)
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		if set, ok := columnSetters[key]; ok {
			m.setters[i] = set
			m.fields[recordFields[key]] = true
			continue
		}
		if match := installmentColumn.FindStringSubmatch(key); match != nil {
			n, _ := strconv.Atoi(match[1])
			m.installments[i] = installmentCell{number: n, part: match[2]}
			m.fields["installments"] = true
		}
	}
	return m
}

// toRecord coerces one CSV row. The raw header→cell map is kept for error
// reporting.
func (m *columnMap) toRecord(row []string) (*ScholarshipRecord, map[string]string) {
	rec := &ScholarshipRecord{supplied: m.fields}
	raw := make(map[string]string, len(m.headers))
	installments := map[int]*Installment{}

	for i, cell := range row {
		if i >= len(m.headers) {
			break
		}
		raw[m.headers[i]] = cell
		if set, ok := m.setters[i]; ok {
			set(rec, cell)
			continue
		}
		ic, ok := m.installments[i]
		if !ok || isNullText(trim(cell)) {
			continue
		}
		inst := installments[ic.number]
		if inst == nil {
			inst = &Installment{InstallmentNumber: ic.number}
			installments[ic.number] = inst
		}
		switch ic.part {
		case "amount":
			inst.Amount = CoerceNumber(cell)
		case "status":
			inst.Status = cell
		case "date", "datecompleted":
			inst.DateCompleted = CoerceDate(cell)
		}
	}

	numbers := make([]int, 0, len(installments))
	for n := range installments {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for _, n := range numbers {
		rec.Installments = append(rec.Installments, *installments[n])
	}

	rec.Normalize()
	return rec, raw
}
